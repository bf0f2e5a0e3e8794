// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package resources

import (
	"context"
	"time"

	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/store"
)

type ReceiverOps struct {
	table *store.Table[models.Receiver]
	now   func() time.Time
}

// ReceiverFilter narrows blood request listings; nil fields match all.
type ReceiverFilter struct {
	Status  *models.RequestStatus
	Urgency *models.UrgencyLevel
}

// Create stores the receiver profile owned by userID. request_date
// defaults to now.
func (o *ReceiverOps) Create(ctx context.Context, userID string, req models.ReceiverCreate) (*models.Receiver, error) {
	const op = "resources.Receivers.Create"
	_, err := o.GetByUser(ctx, userID)
	if err == nil {
		return nil, errs.New(errs.EConflict, op, "receiver profile already exists")
	}
	if errs.ErrorCode(err) != errs.ENotFound {
		return nil, err
	}

	fields := store.FieldsFrom(req).Merge(store.Fields{"user_id": userID})
	if req.RequestDate == nil {
		fields["request_date"] = o.now()
	}
	return o.table.Create(ctx, fields)
}

func (o *ReceiverOps) Get(ctx context.Context, id string) (*models.Receiver, error) {
	return o.table.GetByID(ctx, id)
}

func (o *ReceiverOps) GetByUser(ctx context.Context, userID string) (*models.Receiver, error) {
	r, err := o.table.First(ctx, store.Fields{"user_id": userID})
	if errs.ErrorCode(err) == errs.ENotFound {
		return nil, errs.New(errs.ENotFound, "resources.Receivers.GetByUser", "receiver profile not found")
	}
	return r, err
}

// List returns requests newest first.
func (o *ReceiverOps) List(ctx context.Context, filter ReceiverFilter, page Page) ([]models.Receiver, error) {
	return o.table.List(ctx, page.query(store.Fields{
		"status":        filter.Status,
		"urgency_level": filter.Urgency,
	}, "request_date", "DESC"))
}

func (o *ReceiverOps) Update(ctx context.Context, id string, req models.ReceiverUpdate) (*models.Receiver, error) {
	return o.table.Update(ctx, id, store.FieldsFrom(req))
}

// UpdateByUser edits only the profile owned by userID.
func (o *ReceiverOps) UpdateByUser(ctx context.Context, userID string, req models.ReceiverUpdate) (*models.Receiver, error) {
	r, err := o.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return o.Update(ctx, r.ID, req)
}

func (o *ReceiverOps) SetStatus(ctx context.Context, id string, status models.RequestStatus) (*models.Receiver, error) {
	return o.table.Update(ctx, id, store.Fields{"status": status})
}

func (o *ReceiverOps) Delete(ctx context.Context, id string) (bool, error) {
	return o.table.Delete(ctx, id)
}
