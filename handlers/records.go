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

type RecordHandler struct {
	records *resources.RecordOps
	log     *zap.Logger
}

func NewRecordHandler(res *resources.Resources, log *zap.Logger) *RecordHandler {
	return &RecordHandler{records: res.Records, log: log}
}

// List handles GET /donation-records?donor_id=
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	var donorID *string
	if s := r.URL.Query().Get("donor_id"); s != "" {
		donorID = &s
	}

	records, err := h.records.List(r.Context(), donorID, page)
	respond(w, r, http.StatusOK, records, err)
}

// MyRecords handles GET /donation-records/my-records
func (h *RecordHandler) MyRecords(w http.ResponseWriter, r *http.Request) {
	u, err := user(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	page, err := pageFrom(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	records, err := h.records.ListForUser(r.Context(), u.ID, page)
	respond(w, r, http.StatusOK, records, err)
}

// Create handles POST /donation-records
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.RecordCreate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	rec, err := h.records.Create(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	h.log.Info("donation recorded", zap.String("record_id", rec.ID), zap.String("donor_id", rec.DonorID))
	middleware.JSONResponse(w, http.StatusCreated, rec)
}

// Get handles GET /donation-records/{id}
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.records.Get(r.Context(), r.PathValue("id"))
	respond(w, r, http.StatusOK, rec, err)
}

// Update handles PUT /donation-records/{id}
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.RecordUpdate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	rec, err := h.records.Update(r.Context(), r.PathValue("id"), req)
	respond(w, r, http.StatusOK, rec, err)
}

// SubmitTestResults handles PUT /donation-records/{id}/test-results
func (h *RecordHandler) SubmitTestResults(w http.ResponseWriter, r *http.Request) {
	var req models.TestResultsRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	rec, err := h.records.SubmitTestResults(r.Context(), r.PathValue("id"), req)
	if err == nil {
		h.log.Info("test results recorded", zap.String("record_id", rec.ID), zap.String("status", string(rec.Status)))
	}
	respond(w, r, http.StatusOK, rec, err)
}

// Delete handles DELETE /donation-records/{id}
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.records.Delete(r.Context(), r.PathValue("id"))
	deleted(w, r, "Donation record", removed, err)
}
