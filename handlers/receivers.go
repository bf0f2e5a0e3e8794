// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/bloodbank/middleware"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/resources"
)

// ReceiverHandler serves receiver profiles and the admin blood request
// views over the same rows.
type ReceiverHandler struct {
	receivers *resources.ReceiverOps
	log       *zap.Logger
}

func NewReceiverHandler(res *resources.Resources, log *zap.Logger) *ReceiverHandler {
	return &ReceiverHandler{receivers: res.Receivers, log: log}
}

// List handles GET /receivers
func (h *ReceiverHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	list, err := h.receivers.List(r.Context(), resources.ReceiverFilter{}, page)
	respond(w, r, http.StatusOK, list, err)
}

// Me handles GET /receivers/me
func (h *ReceiverHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := user(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	rec, err := h.receivers.GetByUser(r.Context(), u.ID)
	respond(w, r, http.StatusOK, rec, err)
}

// CreateMe handles POST /receivers
func (h *ReceiverHandler) CreateMe(w http.ResponseWriter, r *http.Request) {
	u, err := user(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	var req models.ReceiverCreate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	rec, err := h.receivers.Create(r.Context(), u.ID, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	h.log.Info("receiver profile created",
		zap.String("receiver_id", rec.ID),
		zap.String("urgency_level", string(rec.UrgencyLevel)),
	)
	middleware.JSONResponse(w, http.StatusCreated, rec)
}

// UpdateMe handles PUT /receivers/me
func (h *ReceiverHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	u, err := user(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	var req models.ReceiverUpdate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	rec, err := h.receivers.UpdateByUser(r.Context(), u.ID, req)
	respond(w, r, http.StatusOK, rec, err)
}

// Get handles GET /receivers/{id}
func (h *ReceiverHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.receivers.Get(r.Context(), r.PathValue("id"))
	respond(w, r, http.StatusOK, rec, err)
}

// Delete handles DELETE /receivers/{id}
func (h *ReceiverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.receivers.Delete(r.Context(), r.PathValue("id"))
	deleted(w, r, "Receiver", removed, err)
}

// ListRequests handles GET /blood-requests?status=&urgency_level=
func (h *ReceiverHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	status, err := queryEnum(r, "status", models.RequestPending, models.RequestFulfilled, models.RequestCancelled)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	urgency, err := queryEnum(r, "urgency_level",
		models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh, models.UrgencyCritical)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	list, err := h.receivers.List(r.Context(), resources.ReceiverFilter{Status: status, Urgency: urgency}, page)
	respond(w, r, http.StatusOK, list, err)
}

// SetRequestStatus handles PUT /blood-requests/{id}/status
func (h *ReceiverHandler) SetRequestStatus(w http.ResponseWriter, r *http.Request) {
	var req models.RequestStatusUpdate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	rec, err := h.receivers.SetStatus(r.Context(), r.PathValue("id"), req.Status)
	if err == nil {
		h.log.Info("blood request status set", zap.String("receiver_id", rec.ID), zap.String("status", string(rec.Status)))
	}
	respond(w, r, http.StatusOK, rec, err)
}
