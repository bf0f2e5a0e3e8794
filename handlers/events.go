// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/middleware"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/resources"
)

type EventHandler struct {
	events *resources.EventOps
	donors *resources.DonorOps
	log    *zap.Logger
}

func NewEventHandler(res *resources.Resources, log *zap.Logger) *EventHandler {
	return &EventHandler{events: res.Events, donors: res.Donors, log: log}
}

// List handles GET /events?status=
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	status, err := queryEnum(r, "status",
		models.EventUpcoming, models.EventOngoing, models.EventCompleted, models.EventCancelled)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	events, err := h.events.List(r.Context(), status, page)
	respond(w, r, http.StatusOK, events, err)
}

// Get handles GET /events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.Get(r.Context(), r.PathValue("id"))
	respond(w, r, http.StatusOK, e, err)
}

// Create handles POST /events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EventCreate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	e, err := h.events.Create(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	h.log.Info("event created", zap.String("event_id", e.ID), zap.Int("capacity", e.Capacity))
	middleware.JSONResponse(w, http.StatusCreated, e)
}

// Update handles PUT /events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.EventUpdate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	e, err := h.events.Update(r.Context(), r.PathValue("id"), req)
	respond(w, r, http.StatusOK, e, err)
}

// Delete handles DELETE /events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.events.Delete(r.Context(), r.PathValue("id"))
	deleted(w, r, "Event", removed, err)
}

// Register handles POST /events/{id}/register
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	donorID, err := h.registrant(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	e, err := h.events.Register(r.Context(), r.PathValue("id"), donorID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	h.log.Info("donor registered for event", zap.String("event_id", e.ID), zap.String("donor_id", donorID))
	middleware.JSONResponse(w, http.StatusOK, e)
}

// Unregister handles DELETE /events/{id}/unregister
func (h *EventHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	donorID, err := h.registrant(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	e, err := h.events.Unregister(r.Context(), r.PathValue("id"), donorID)
	respond(w, r, http.StatusOK, e, err)
}

// registrant picks the donor a registration call acts on. Donors always
// act on their own profile; admins must name one in the body.
func (h *EventHandler) registrant(r *http.Request) (string, error) {
	const op = "handlers.Events.registrant"
	u, err := user(r)
	if err != nil {
		return "", err
	}

	// The body is optional; an empty one names no donor.
	var req models.RegistrationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		return "", errs.New(errs.EInvalid, op, "invalid JSON: %v", err)
	}
	if err := middleware.Validate(&req); err != nil {
		return "", err
	}

	switch u.Role {
	case models.RoleDonor:
		d, err := h.donors.GetByUser(r.Context(), u.ID)
		if err != nil {
			return "", err
		}
		if req.DonorID != nil && *req.DonorID != d.ID {
			return "", errs.New(errs.EForbidden, op, "donors can only register themselves")
		}
		return d.ID, nil
	case models.RoleAdmin:
		if req.DonorID == nil {
			return "", errs.New(errs.EInvalid, op, "donor_id is required")
		}
		return *req.DonorID, nil
	}
	return "", errs.New(errs.EForbidden, op, "not enough permissions")
}
