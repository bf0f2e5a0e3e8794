// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/danielhkuo/bloodbank/auth"
	"github.com/danielhkuo/bloodbank/handlers"
	"github.com/danielhkuo/bloodbank/middleware"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/resources"
	"github.com/danielhkuo/bloodbank/store"
)

const apiPrefix = "/api/v1"

// Deps are the collaborators the routes are built from
type Deps struct {
	Store     *store.Store
	Resources *resources.Resources
	Issuer    *auth.TokenIssuer
	Log       *zap.Logger
	// Registry receives the HTTP collectors and is served at /metrics.
	// A private registry is created when nil.
	Registry *prometheus.Registry
}

type routes struct {
	mux     *http.ServeMux
	log     *zap.Logger
	gate    *middleware.Gate
	metrics *middleware.Metrics
}

// public registers a route open to everyone
func (rt *routes) public(pattern string, h http.HandlerFunc) {
	rt.mux.HandleFunc(pattern, rt.metrics.Instrument(pattern, middleware.WithLogging(rt.log, h)))
}

// gated registers a route for authenticated users holding one of roles,
// or any authenticated user when roles is empty
func (rt *routes) gated(pattern string, h http.HandlerFunc, roles ...models.Role) {
	rt.public(pattern, rt.gate.Require(roles...)(h))
}

func NewRouter(deps Deps) *http.ServeMux {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	rt := &routes{
		mux:     http.NewServeMux(),
		log:     log,
		gate:    middleware.NewGate(deps.Issuer, deps.Resources.Users, log),
		metrics: middleware.NewMetrics(reg),
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Resources, deps.Issuer, log)
	donorHandler := handlers.NewDonorHandler(deps.Resources, log)
	receiverHandler := handlers.NewReceiverHandler(deps.Resources, log)
	eventHandler := handlers.NewEventHandler(deps.Resources, log)
	recordHandler := handlers.NewRecordHandler(deps.Resources, log)
	inventoryHandler := handlers.NewInventoryHandler(deps.Resources, log)
	adminHandler := handlers.NewAdminHandler(deps.Resources, log)
	healthHandler := handlers.NewHealthHandler(deps.Store)

	admin := models.RoleAdmin
	donor := models.RoleDonor
	receiver := models.RoleReceiver

	// Health, metrics and banner
	rt.mux.HandleFunc("GET /health", healthHandler.Health)
	rt.mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	rt.mux.HandleFunc("GET /{$}", healthHandler.Root)

	// Authentication
	rt.public("POST "+apiPrefix+"/auth/register", authHandler.Register)
	rt.public("POST "+apiPrefix+"/auth/login", authHandler.Login)
	rt.gated("GET "+apiPrefix+"/auth/me", authHandler.Me)

	// Donors
	rt.gated("GET "+apiPrefix+"/donors", donorHandler.List, admin)
	rt.gated("GET "+apiPrefix+"/donors/eligible", donorHandler.ListEligible, admin)
	rt.gated("GET "+apiPrefix+"/donors/ineligible", donorHandler.ListIneligible, admin)
	rt.gated("GET "+apiPrefix+"/donors/me", donorHandler.Me, donor)
	rt.gated("POST "+apiPrefix+"/donors", donorHandler.CreateMe, donor)
	rt.gated("PUT "+apiPrefix+"/donors/me", donorHandler.UpdateMe, donor)
	rt.gated("GET "+apiPrefix+"/donors/{id}", donorHandler.Get, admin)
	rt.gated("PUT "+apiPrefix+"/donors/{id}/eligibility", donorHandler.SetEligibility, admin)
	rt.gated("DELETE "+apiPrefix+"/donors/{id}", donorHandler.Delete, admin)

	// Receivers
	rt.gated("GET "+apiPrefix+"/receivers", receiverHandler.List, admin)
	rt.gated("GET "+apiPrefix+"/receivers/me", receiverHandler.Me, receiver)
	rt.gated("POST "+apiPrefix+"/receivers", receiverHandler.CreateMe, receiver)
	rt.gated("PUT "+apiPrefix+"/receivers/me", receiverHandler.UpdateMe, receiver)
	rt.gated("GET "+apiPrefix+"/receivers/{id}", receiverHandler.Get, admin)
	rt.gated("DELETE "+apiPrefix+"/receivers/{id}", receiverHandler.Delete, admin)

	// Blood requests (admin view over receivers)
	rt.gated("GET "+apiPrefix+"/blood-requests", receiverHandler.ListRequests, admin)
	rt.gated("PUT "+apiPrefix+"/blood-requests/{id}/status", receiverHandler.SetRequestStatus, admin)

	// Events
	rt.public("GET "+apiPrefix+"/events", eventHandler.List)
	rt.public("GET "+apiPrefix+"/events/{id}", eventHandler.Get)
	rt.gated("POST "+apiPrefix+"/events", eventHandler.Create, admin)
	rt.gated("PUT "+apiPrefix+"/events/{id}", eventHandler.Update, admin)
	rt.gated("DELETE "+apiPrefix+"/events/{id}", eventHandler.Delete, admin)
	rt.gated("POST "+apiPrefix+"/events/{id}/register", eventHandler.Register, donor, admin)
	rt.gated("DELETE "+apiPrefix+"/events/{id}/unregister", eventHandler.Unregister, donor, admin)

	// Donation records
	rt.gated("GET "+apiPrefix+"/donation-records", recordHandler.List, admin)
	rt.gated("GET "+apiPrefix+"/donation-records/my-records", recordHandler.MyRecords, donor)
	rt.gated("POST "+apiPrefix+"/donation-records", recordHandler.Create, admin)
	rt.gated("GET "+apiPrefix+"/donation-records/{id}", recordHandler.Get, admin)
	rt.gated("PUT "+apiPrefix+"/donation-records/{id}", recordHandler.Update, admin)
	rt.gated("PUT "+apiPrefix+"/donation-records/{id}/test-results", recordHandler.SubmitTestResults, admin)
	rt.gated("DELETE "+apiPrefix+"/donation-records/{id}", recordHandler.Delete, admin)

	// Blood inventory
	rt.gated("GET "+apiPrefix+"/blood-inventory", inventoryHandler.List)
	rt.gated("POST "+apiPrefix+"/blood-inventory", inventoryHandler.Create, admin)
	rt.gated("POST "+apiPrefix+"/blood-inventory/upsert", inventoryHandler.Upsert, admin)
	rt.gated("PUT "+apiPrefix+"/blood-inventory/{id}", inventoryHandler.Update, admin)
	rt.gated("PUT "+apiPrefix+"/blood-inventory/{id}/units", inventoryHandler.AdjustUnits, admin)
	rt.gated("DELETE "+apiPrefix+"/blood-inventory/{id}", inventoryHandler.Delete, admin)

	// Admin
	rt.gated("GET "+apiPrefix+"/dashboard/stats", adminHandler.DashboardStats, admin)
	rt.gated("GET "+apiPrefix+"/admin/table-counts", adminHandler.TableCounts, admin)
	rt.gated("GET "+apiPrefix+"/admin/users", adminHandler.ListUsers, admin)

	return rt.mux
}
