// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package resources

import (
	"context"

	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/store"
)

type InventoryOps struct {
	table *store.Table[models.InventoryItem]
}

// List returns every stock row ordered by blood type.
func (o *InventoryOps) List(ctx context.Context) ([]models.InventoryItem, error) {
	return o.table.List(ctx, store.Query{OrderBy: "blood_type", OrderDir: "ASC", Limit: store.MaxLimit})
}

// Create adds the stock row for a blood type; a second row for the same
// type is EConflict.
func (o *InventoryOps) Create(ctx context.Context, req models.InventoryCreate) (*models.InventoryItem, error) {
	item, err := o.table.Create(ctx, store.FieldsFrom(req))
	if errs.ErrorCode(err) == errs.EConflict {
		return nil, errs.New(errs.EConflict, "resources.Inventory.Create",
			"inventory for blood type %s already exists", req.BloodType)
	}
	return item, err
}

func (o *InventoryOps) Get(ctx context.Context, id string) (*models.InventoryItem, error) {
	return o.table.GetByID(ctx, id)
}

func (o *InventoryOps) GetByBloodType(ctx context.Context, bt models.BloodType) (*models.InventoryItem, error) {
	return o.table.First(ctx, store.Fields{"blood_type": bt})
}

func (o *InventoryOps) Update(ctx context.Context, id string, req models.InventoryUpdate) (*models.InventoryItem, error) {
	return o.table.Update(ctx, id, store.FieldsFrom(req))
}

// AdjustUnits adds delta to units_available in one statement. Results
// below zero are refused with EInvalid and leave the row unchanged.
func (o *InventoryOps) AdjustUnits(ctx context.Context, id string, delta int) (*models.InventoryItem, error) {
	return o.table.AddInt(ctx, id, "units_available", int64(delta), 0)
}

// Upsert sets the stock of a blood type, creating the row when missing.
// created reports which path was taken.
func (o *InventoryOps) Upsert(ctx context.Context, req models.InventoryCreate) (item *models.InventoryItem, created bool, err error) {
	update := models.InventoryUpdate{UnitsAvailable: &req.UnitsAvailable, ExpiryDate: req.ExpiryDate}

	// A concurrent insert of the same type loses on the unique key and
	// falls through to the update on the second pass.
	for range 2 {
		existing, err := o.GetByBloodType(ctx, req.BloodType)
		switch errs.ErrorCode(err) {
		case "":
			item, err := o.Update(ctx, existing.ID, update)
			return item, false, err
		case errs.ENotFound:
		default:
			return nil, false, err
		}

		item, err = o.table.Create(ctx, store.FieldsFrom(req))
		if errs.ErrorCode(err) != errs.EConflict {
			return item, err == nil, err
		}
	}
	return nil, false, errs.New(errs.EConflict, "resources.Inventory.Upsert",
		"inventory for blood type %s changed concurrently", req.BloodType)
}

func (o *InventoryOps) Delete(ctx context.Context, id string) (bool, error) {
	return o.table.Delete(ctx, id)
}
