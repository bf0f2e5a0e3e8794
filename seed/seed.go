// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package seed loads a small sample dataset for development databases.
//
// Run is idempotent: rows found by their natural key (email, owning user,
// event title, blood type) are reused rather than inserted again.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/resources"
)

// Sample accounts
const (
	AdminEmail       = "admin@bloodbank.com"
	AdminPassword    = "admin123"
	DonorEmail       = "john.doe@email.com"
	DonorPassword    = "donor123"
	ReceiverEmail    = "jane.smith@email.com"
	ReceiverPassword = "receiver123"

	eventTitle = "Community Blood Drive"
	day        = 24 * time.Hour
)

var inventory = map[models.BloodType]int{
	models.BloodAPos: 25, models.BloodANeg: 15,
	models.BloodBPos: 20, models.BloodBNeg: 10,
	models.BloodABPos: 8, models.BloodABNeg: 5,
	models.BloodOPos: 30, models.BloodONeg: 18,
}

// Run inserts the sample data relative to now
func Run(ctx context.Context, res *resources.Resources, now time.Time, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	if _, err := ensureUser(ctx, res, AdminEmail, AdminPassword, models.RoleAdmin); err != nil {
		return err
	}

	donorUser, err := ensureUser(ctx, res, DonorEmail, DonorPassword, models.RoleDonor)
	if err != nil {
		return err
	}
	donor, err := ensureDonor(ctx, res, donorUser.ID, now)
	if err != nil {
		return err
	}

	receiverUser, err := ensureUser(ctx, res, ReceiverEmail, ReceiverPassword, models.RoleReceiver)
	if err != nil {
		return err
	}
	if err := ensureReceiver(ctx, res, receiverUser.ID); err != nil {
		return err
	}

	event, err := ensureEvent(ctx, res, donor.ID, now)
	if err != nil {
		return err
	}

	expiry := now.Add(30 * day)
	for _, bt := range models.BloodTypes {
		if _, _, err := res.Inventory.Upsert(ctx, models.InventoryCreate{
			BloodType:      bt,
			UnitsAvailable: inventory[bt],
			ExpiryDate:     &expiry,
		}); err != nil {
			return fmt.Errorf("seed inventory %s: %w", bt, err)
		}
	}

	if err := ensureRecord(ctx, res, donor, event.ID, now); err != nil {
		return err
	}

	log.Info("sample data ready",
		zap.String("admin", AdminEmail),
		zap.String("donor_id", donor.ID),
		zap.String("event_id", event.ID),
	)
	return nil
}

func ensureUser(ctx context.Context, res *resources.Resources, email, password string, role models.Role) (*models.User, error) {
	u, err := res.Users.GetByEmail(ctx, email)
	if errs.ErrorCode(err) == errs.ENotFound {
		u, err = res.Users.Create(ctx, email, password, role)
	}
	if err != nil {
		return nil, fmt.Errorf("seed user %s: %w", email, err)
	}
	return u, nil
}

func ensureDonor(ctx context.Context, res *resources.Resources, userID string, now time.Time) (*models.Donor, error) {
	d, err := res.Donors.GetByUser(ctx, userID)
	if errs.ErrorCode(err) != errs.ENotFound {
		return d, err
	}

	email, phone := DonorEmail, "+1-555-0123"
	address, history := "123 Main St, City, State 12345", "No significant medical history"
	last := now.Add(-30 * day)
	d, err = res.Donors.Create(ctx, userID, models.DonorCreate{
		Name:             "John Doe",
		Email:            &email,
		Phone:            &phone,
		BloodType:        models.BloodOPos,
		Age:              28,
		Weight:           70,
		Address:          &address,
		MedicalHistory:   &history,
		LastDonationDate: &last,
	})
	if err != nil {
		return nil, fmt.Errorf("seed donor: %w", err)
	}
	return d, nil
}

func ensureReceiver(ctx context.Context, res *resources.Resources, userID string) error {
	_, err := res.Receivers.GetByUser(ctx, userID)
	if errs.ErrorCode(err) != errs.ENotFound {
		return err
	}

	email, phone := ReceiverEmail, "+1-555-0456"
	urgency, units := models.UrgencyHigh, 3
	hospital, doctor, condition := "City General Hospital", "Dr. Wilson", "Surgery preparation"
	if _, err := res.Receivers.Create(ctx, userID, models.ReceiverCreate{
		Name:             "Jane Smith",
		Email:            &email,
		Phone:            &phone,
		BloodType:        models.BloodAPos,
		UrgencyLevel:     &urgency,
		UnitsNeeded:      &units,
		HospitalName:     &hospital,
		DoctorName:       &doctor,
		MedicalCondition: &condition,
	}); err != nil {
		return fmt.Errorf("seed receiver: %w", err)
	}
	return nil
}

func ensureEvent(ctx context.Context, res *resources.Resources, donorID string, now time.Time) (*models.Event, error) {
	events, err := res.Events.List(ctx, nil, resources.Page{})
	if err != nil {
		return nil, err
	}

	var ev *models.Event
	for i := range events {
		if events[i].Title == eventTitle {
			ev = &events[i]
			break
		}
	}

	if ev == nil {
		desc := "Join us for our monthly community blood drive to help save lives in our community."
		address, organizer := "456 Community Ave, City, State 12345", "City Blood Bank"
		ev, err = res.Events.Create(ctx, models.EventCreate{
			Title:       eventTitle,
			Description: &desc,
			Date:        now.Add(7 * day),
			StartTime:   "09:00",
			Location:    "Community Center",
			Address:     &address,
			Capacity:    50,
			Organizer:   &organizer,
		})
		if err != nil {
			return nil, fmt.Errorf("seed event: %w", err)
		}
	}

	if ev.RegisteredDonors.Contains(donorID) {
		return ev, nil
	}
	if ev, err = res.Events.Register(ctx, ev.ID, donorID); err != nil {
		return nil, fmt.Errorf("seed event registration: %w", err)
	}
	return ev, nil
}

func ensureRecord(ctx context.Context, res *resources.Resources, donor *models.Donor, eventID string, now time.Time) error {
	existing, err := res.Records.ListByDonor(ctx, donor.ID, resources.Page{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	date := now.Add(-30 * day)
	rec, err := res.Records.Create(ctx, models.RecordCreate{
		DonorID:      donor.ID,
		EventID:      &eventID,
		DonationDate: &date,
		BloodType:    donor.BloodType,
	})
	if err != nil {
		return fmt.Errorf("seed donation record: %w", err)
	}

	yes, notes := true, "Successful donation"
	if _, err := res.Records.SubmitTestResults(ctx, rec.ID, models.TestResultsRequest{
		HIVTest:        &yes,
		HepatitisBTest: &yes,
		HepatitisCTest: &yes,
		SyphilisTest:   &yes,
		Notes:          &notes,
	}); err != nil {
		return fmt.Errorf("seed test results: %w", err)
	}
	return nil
}
