// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/bloodbank/middleware"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/resources"
)

type DonorHandler struct {
	donors *resources.DonorOps
	log    *zap.Logger
}

func NewDonorHandler(res *resources.Resources, log *zap.Logger) *DonorHandler {
	return &DonorHandler{donors: res.Donors, log: log}
}

// List handles GET /donors, optionally filtered by ?blood_type=
func (h *DonorHandler) List(w http.ResponseWriter, r *http.Request) {
	bt, err := queryEnum(r, "blood_type", models.BloodTypes...)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if bt == nil {
		h.list(w, r, h.donors.List)
		return
	}
	h.list(w, r, func(ctx context.Context, p resources.Page) ([]models.Donor, error) {
		return h.donors.ListByBloodType(ctx, *bt, p)
	})
}

// ListEligible handles GET /donors/eligible
func (h *DonorHandler) ListEligible(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.donors.ListEligible)
}

// ListIneligible handles GET /donors/ineligible
func (h *DonorHandler) ListIneligible(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.donors.ListIneligible)
}

func (h *DonorHandler) list(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, p resources.Page) ([]models.Donor, error)) {
	page, err := pageFrom(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	donors, err := fetch(r.Context(), page)
	respond(w, r, http.StatusOK, donors, err)
}

// Me handles GET /donors/me
func (h *DonorHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := user(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	d, err := h.donors.GetByUser(r.Context(), u.ID)
	respond(w, r, http.StatusOK, d, err)
}

// CreateMe handles POST /donors
func (h *DonorHandler) CreateMe(w http.ResponseWriter, r *http.Request) {
	u, err := user(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	var req models.DonorCreate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	d, err := h.donors.Create(r.Context(), u.ID, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	h.log.Info("donor profile created", zap.String("donor_id", d.ID), zap.String("user_id", u.ID))
	middleware.JSONResponse(w, http.StatusCreated, d)
}

// UpdateMe handles PUT /donors/me
func (h *DonorHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	u, err := user(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	var req models.DonorUpdate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	d, err := h.donors.UpdateByUser(r.Context(), u.ID, req)
	respond(w, r, http.StatusOK, d, err)
}

// Get handles GET /donors/{id}
func (h *DonorHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.donors.Get(r.Context(), r.PathValue("id"))
	respond(w, r, http.StatusOK, d, err)
}

// SetEligibility handles PUT /donors/{id}/eligibility
func (h *DonorHandler) SetEligibility(w http.ResponseWriter, r *http.Request) {
	var req models.EligibilityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	d, err := h.donors.SetEligibility(r.Context(), r.PathValue("id"), *req.IsEligible)
	if err == nil {
		h.log.Info("donor eligibility set", zap.String("donor_id", d.ID), zap.Bool("is_eligible", d.IsEligible))
	}
	respond(w, r, http.StatusOK, d, err)
}

// Delete handles DELETE /donors/{id}
func (h *DonorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.donors.Delete(r.Context(), r.PathValue("id"))
	deleted(w, r, "Donor", removed, err)
}
