// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/bloodbank/middleware"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/resources"
	"github.com/danielhkuo/bloodbank/store"
)

type AdminHandler struct {
	stats *resources.StatsOps
	users *resources.UserOps
	log   *zap.Logger
}

func NewAdminHandler(res *resources.Resources, log *zap.Logger) *AdminHandler {
	return &AdminHandler{stats: res.Stats, users: res.Users, log: log}
}

// ListUsers handles GET /admin/users?role=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role, err := queryEnum(r, "role", models.RoleAdmin, models.RoleDonor, models.RoleReceiver)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	page, err := pageFrom(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	users, err := h.users.List(r.Context(), role, page)
	respond(w, r, http.StatusOK, users, err)
}

// DashboardStats handles GET /dashboard/stats
func (h *AdminHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Dashboard(r.Context())
	respond(w, r, http.StatusOK, stats, err)
}

// TableCounts handles GET /admin/table-counts?table=
func (h *AdminHandler) TableCounts(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	h.log.Debug("table counts requested", zap.String("table", table))
	counts, err := h.stats.TableCounts(r.Context(), table)
	respond(w, r, http.StatusOK, counts, err)
}

// HealthHandler reports liveness and backend reachability
type HealthHandler struct {
	store *store.Store
}

func NewHealthHandler(s *store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		middleware.JSONResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "unreachable",
		})
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": string(h.store.Dialect()),
	})
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		middleware.ErrorResponse(w, http.StatusNotFound, "route not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Blood Bank Management API",
		"version": "1.0.0",
		"docs":    "/api/v1",
	})
}
