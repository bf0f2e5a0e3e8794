// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package resources

import (
	"context"
	"strings"
	"time"

	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/store"
)

type RecordOps struct {
	table  *store.Table[models.DonationRecord]
	donors *store.Table[models.Donor]
	events *store.Table[models.Event]
	now    func() time.Time
}

// Create stores a donation record. The donor, and the event when given,
// must exist. donation_date defaults to now.
func (o *RecordOps) Create(ctx context.Context, req models.RecordCreate) (*models.DonationRecord, error) {
	const op = "resources.Records.Create"
	if _, err := o.donors.GetByID(ctx, req.DonorID); err != nil {
		if errs.ErrorCode(err) == errs.ENotFound {
			return nil, errs.New(errs.EInvalid, op, "donor %s does not exist", req.DonorID)
		}
		return nil, err
	}
	if req.EventID != nil {
		if _, err := o.events.GetByID(ctx, *req.EventID); err != nil {
			if errs.ErrorCode(err) == errs.ENotFound {
				return nil, errs.New(errs.EInvalid, op, "event %s does not exist", *req.EventID)
			}
			return nil, err
		}
	}

	fields := store.FieldsFrom(req)
	if req.DonationDate == nil {
		fields["donation_date"] = o.now()
	}
	return o.table.Create(ctx, fields)
}

func (o *RecordOps) Get(ctx context.Context, id string) (*models.DonationRecord, error) {
	return o.table.GetByID(ctx, id)
}

// List returns records newest donation first, optionally for one donor.
func (o *RecordOps) List(ctx context.Context, donorID *string, page Page) ([]models.DonationRecord, error) {
	return o.table.List(ctx, page.query(store.Fields{"donor_id": donorID}, "donation_date", "DESC"))
}

func (o *RecordOps) ListByDonor(ctx context.Context, donorID string, page Page) ([]models.DonationRecord, error) {
	return o.List(ctx, &donorID, page)
}

// ListForUser returns the records of the donor profile owned by userID.
func (o *RecordOps) ListForUser(ctx context.Context, userID string, page Page) ([]models.DonationRecord, error) {
	d, err := o.donors.First(ctx, store.Fields{"user_id": userID})
	if errs.ErrorCode(err) == errs.ENotFound {
		return nil, errs.New(errs.ENotFound, "resources.Records.ListForUser", "donor profile not found")
	}
	if err != nil {
		return nil, err
	}
	return o.ListByDonor(ctx, d.ID, page)
}

func (o *RecordOps) Update(ctx context.Context, id string, req models.RecordUpdate) (*models.DonationRecord, error) {
	return o.table.Update(ctx, id, store.FieldsFrom(req))
}

// SubmitTestResults stores the four screening results. The record becomes
// approved when all of them passed and rejected otherwise. All four must be
// present.
func (o *RecordOps) SubmitTestResults(ctx context.Context, id string, req models.TestResultsRequest) (*models.DonationRecord, error) {
	var missing []string
	for _, r := range []struct {
		col string
		v   *bool
	}{
		{"hiv_test", req.HIVTest},
		{"hepatitis_b_test", req.HepatitisBTest},
		{"hepatitis_c_test", req.HepatitisCTest},
		{"syphilis_test", req.SyphilisTest},
	} {
		if r.v == nil {
			missing = append(missing, r.col)
		}
	}
	if len(missing) > 0 {
		return nil, errs.New(errs.EInvalid, "resources.Records.SubmitTestResults",
			"missing test results: %s", strings.Join(missing, ", "))
	}

	return o.table.Update(ctx, id, store.FieldsFrom(req).Merge(store.Fields{
		"status": req.Results().Status(),
	}))
}

func (o *RecordOps) Delete(ctx context.Context, id string) (bool, error) {
	return o.table.Delete(ctx, id)
}
