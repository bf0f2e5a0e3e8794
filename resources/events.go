// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package resources

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"

	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/store"
)

// casRetries bounds how often a registration change is retried after
// losing a compare-and-swap to a concurrent writer.
const casRetries = 8

var errRegistrationRaced = errors.New("registration list changed concurrently")

type EventOps struct {
	table  *store.Table[models.Event]
	donors *store.Table[models.Donor]
}

// Create stores an upcoming event with no registrations.
func (o *EventOps) Create(ctx context.Context, req models.EventCreate) (*models.Event, error) {
	return o.table.Create(ctx, store.FieldsFrom(req).Merge(store.Fields{
		"registered_donors": models.DonorIDs{},
		"status":            models.EventUpcoming,
	}))
}

func (o *EventOps) Get(ctx context.Context, id string) (*models.Event, error) {
	return o.table.GetByID(ctx, id)
}

// List returns events, latest date first.
func (o *EventOps) List(ctx context.Context, status *models.EventStatus, page Page) ([]models.Event, error) {
	return o.table.List(ctx, page.query(store.Fields{"status": status}, "event_date", "DESC"))
}

// Upcoming returns events still open for registration, soonest first.
func (o *EventOps) Upcoming(ctx context.Context, page Page) ([]models.Event, error) {
	return o.table.List(ctx, page.query(store.Fields{"status": models.EventUpcoming}, "event_date", "ASC"))
}

// Update edits an event. A capacity change is applied only against the
// registration list it was checked with, so it can never fall below the
// number of registered donors.
func (o *EventOps) Update(ctx context.Context, id string, req models.EventUpdate) (*models.Event, error) {
	const op = "resources.Events.Update"
	fields := store.FieldsFrom(req)
	if req.Capacity == nil {
		return o.table.Update(ctx, id, fields)
	}

	var updated *models.Event
	err := o.retryRaced(ctx, func() error {
		e, err := o.table.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if *req.Capacity < len(e.RegisteredDonors) {
			return errs.New(errs.EConflict, op,
				"capacity %d is below the %d registered donors", *req.Capacity, len(e.RegisteredDonors))
		}
		row, ok, err := o.table.UpdateIf(ctx, id, store.Fields{"registered_donors": e.RegisteredDonors}, fields)
		if err != nil {
			return err
		}
		if !ok {
			return errRegistrationRaced
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, o.raced(op, err)
	}
	return updated, nil
}

// Register adds donorID to the event. The event must be upcoming, not full,
// and not already list the donor.
func (o *EventOps) Register(ctx context.Context, eventID, donorID string) (*models.Event, error) {
	const op = "resources.Events.Register"
	if _, err := o.donors.GetByID(ctx, donorID); err != nil {
		return nil, err
	}

	return o.swapRegistrations(ctx, op, eventID, func(e *models.Event) (models.DonorIDs, error) {
		switch {
		case e.Status != models.EventUpcoming:
			return nil, errs.New(errs.EConflict, op, "event is %s and not open for registration", e.Status)
		case e.RegisteredDonors.Contains(donorID):
			return nil, errs.New(errs.EConflict, op, "donor already registered for this event")
		case e.Full():
			return nil, errs.New(errs.EConflict, op, "event is full")
		}
		return e.RegisteredDonors.With(donorID), nil
	})
}

// Unregister removes donorID from the event.
func (o *EventOps) Unregister(ctx context.Context, eventID, donorID string) (*models.Event, error) {
	const op = "resources.Events.Unregister"
	return o.swapRegistrations(ctx, op, eventID, func(e *models.Event) (models.DonorIDs, error) {
		if !e.RegisteredDonors.Contains(donorID) {
			return nil, errs.New(errs.EConflict, op, "donor is not registered for this event")
		}
		return e.RegisteredDonors.Without(donorID), nil
	})
}

func (o *EventOps) Delete(ctx context.Context, id string) (bool, error) {
	return o.table.Delete(ctx, id)
}

func (o *EventOps) Count(ctx context.Context, status *models.EventStatus) (int, error) {
	return o.table.Count(ctx, store.Fields{"status": status})
}

// swapRegistrations reads the event, derives the next registration list
// and writes it back only if nobody changed it in between.
func (o *EventOps) swapRegistrations(ctx context.Context, op, eventID string, next func(*models.Event) (models.DonorIDs, error)) (*models.Event, error) {
	err := o.retryRaced(ctx, func() error {
		e, err := o.table.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		ids, err := next(e)
		if err != nil {
			return err
		}
		swapped, err := o.table.CompareAndSwap(ctx, eventID, "registered_donors", e.RegisteredDonors, ids)
		if err != nil {
			return err
		}
		if !swapped {
			return errRegistrationRaced
		}
		return nil
	})
	if err != nil {
		return nil, o.raced(op, err)
	}
	return o.table.GetByID(ctx, eventID)
}

// retryRaced reruns fn while it loses compare-and-swap races. Any other
// error stops the loop.
func (o *EventOps) retryRaced(ctx context.Context, fn func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, casRetries), ctx)
	return backoff.Retry(func() error {
		err := fn()
		if err == nil || errors.Is(err, errRegistrationRaced) {
			return err
		}
		return backoff.Permanent(err)
	}, b)
}

func (o *EventOps) raced(op string, err error) error {
	if errors.Is(err, errRegistrationRaced) {
		return errs.New(errs.EConflict, op, "event registrations are changing too quickly, try again")
	}
	return err
}
