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

type InventoryHandler struct {
	inventory *resources.InventoryOps
	log       *zap.Logger
}

func NewInventoryHandler(res *resources.Resources, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{inventory: res.Inventory, log: log}
}

// List handles GET /blood-inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.List(r.Context())
	respond(w, r, http.StatusOK, items, err)
}

// Create handles POST /blood-inventory
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.InventoryCreate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	item, err := h.inventory.Create(r.Context(), req)
	respond(w, r, http.StatusCreated, item, err)
}

// Update handles PUT /blood-inventory/{id}
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.InventoryUpdate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	item, err := h.inventory.Update(r.Context(), r.PathValue("id"), req)
	respond(w, r, http.StatusOK, item, err)
}

// AdjustUnits handles PUT /blood-inventory/{id}/units
func (h *InventoryHandler) AdjustUnits(w http.ResponseWriter, r *http.Request) {
	var req models.UnitsDelta
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	item, err := h.inventory.AdjustUnits(r.Context(), r.PathValue("id"), *req.Delta)
	if err == nil {
		h.log.Info("inventory adjusted",
			zap.String("blood_type", string(item.BloodType)),
			zap.Int("delta", *req.Delta),
			zap.Int("units_available", item.UnitsAvailable),
		)
	}
	respond(w, r, http.StatusOK, item, err)
}

// Upsert handles POST /blood-inventory/upsert
func (h *InventoryHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req models.InventoryCreate
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	item, created, err := h.inventory.Upsert(r.Context(), req)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond(w, r, status, item, err)
}

// Delete handles DELETE /blood-inventory/{id}
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.inventory.Delete(r.Context(), r.PathValue("id"))
	deleted(w, r, "Inventory item", removed, err)
}
