// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package resources

import (
	"context"

	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/store"
)

type DonorOps struct {
	table *store.Table[models.Donor]
}

// Create stores the donor profile owned by userID. A user has at most one.
func (o *DonorOps) Create(ctx context.Context, userID string, req models.DonorCreate) (*models.Donor, error) {
	const op = "resources.Donors.Create"
	_, err := o.GetByUser(ctx, userID)
	if err == nil {
		return nil, errs.New(errs.EConflict, op, "donor profile already exists")
	}
	if errs.ErrorCode(err) != errs.ENotFound {
		return nil, err
	}

	return o.table.Create(ctx, store.FieldsFrom(req).Merge(store.Fields{"user_id": userID}))
}

func (o *DonorOps) Get(ctx context.Context, id string) (*models.Donor, error) {
	return o.table.GetByID(ctx, id)
}

// GetByUser resolves the profile owned by userID.
func (o *DonorOps) GetByUser(ctx context.Context, userID string) (*models.Donor, error) {
	d, err := o.table.First(ctx, store.Fields{"user_id": userID})
	if errs.ErrorCode(err) == errs.ENotFound {
		return nil, errs.New(errs.ENotFound, "resources.Donors.GetByUser", "donor profile not found")
	}
	return d, err
}

func (o *DonorOps) List(ctx context.Context, page Page) ([]models.Donor, error) {
	return o.table.List(ctx, page.query(nil, "created_at", "ASC"))
}

func (o *DonorOps) ListEligible(ctx context.Context, page Page) ([]models.Donor, error) {
	return o.table.List(ctx, page.query(store.Fields{"is_eligible": true}, "created_at", "ASC"))
}

func (o *DonorOps) ListIneligible(ctx context.Context, page Page) ([]models.Donor, error) {
	return o.table.List(ctx, page.query(store.Fields{"is_eligible": false}, "created_at", "ASC"))
}

func (o *DonorOps) ListByBloodType(ctx context.Context, bt models.BloodType, page Page) ([]models.Donor, error) {
	return o.table.List(ctx, page.query(store.Fields{"blood_type": bt}, "created_at", "ASC"))
}

func (o *DonorOps) Update(ctx context.Context, id string, req models.DonorUpdate) (*models.Donor, error) {
	return o.table.Update(ctx, id, store.FieldsFrom(req))
}

// UpdateByUser edits only the profile owned by userID.
func (o *DonorOps) UpdateByUser(ctx context.Context, userID string, req models.DonorUpdate) (*models.Donor, error) {
	d, err := o.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return o.Update(ctx, d.ID, req)
}

func (o *DonorOps) SetEligibility(ctx context.Context, id string, eligible bool) (*models.Donor, error) {
	return o.table.Update(ctx, id, store.Fields{"is_eligible": eligible})
}

func (o *DonorOps) Delete(ctx context.Context, id string) (bool, error) {
	return o.table.Delete(ctx, id)
}

func (o *DonorOps) Count(ctx context.Context) (int, error) {
	return o.table.Count(ctx, nil)
}
