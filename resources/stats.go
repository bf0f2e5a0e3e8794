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

// RecentWindow is how far back a donation counts as recent.
const RecentWindow = 30 * 24 * time.Hour

type StatsOps struct {
	store     *store.Store
	donors    *store.Table[models.Donor]
	receivers *store.Table[models.Receiver]
	events    *store.Table[models.Event]
	records   *store.Table[models.DonationRecord]
	inventory *store.Table[models.InventoryItem]
}

// Dashboard aggregates the admin overview. Critical requests are pending
// receivers at critical urgency.
func (o *StatsOps) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var (
		stats models.DashboardStats
		err   error
	)

	if stats.TotalDonors, err = o.donors.Count(ctx, nil); err != nil {
		return nil, err
	}
	if stats.TotalReceivers, err = o.receivers.Count(ctx, nil); err != nil {
		return nil, err
	}
	if stats.UpcomingEvents, err = o.events.Count(ctx, store.Fields{"status": models.EventUpcoming}); err != nil {
		return nil, err
	}
	if stats.TotalBloodUnits, err = o.inventory.Sum(ctx, "units_available", nil); err != nil {
		return nil, err
	}
	stats.CriticalRequests, err = o.receivers.Count(ctx, store.Fields{
		"urgency_level": models.UrgencyCritical,
		"status":        models.RequestPending,
	})
	if err != nil {
		return nil, err
	}
	if stats.RecentDonations, err = o.records.CountSince(ctx, "donation_date", o.store.Now().Add(-RecentWindow)); err != nil {
		return nil, err
	}
	if stats.BloodTypeDistribution, err = o.inventory.GroupSum(ctx, "blood_type", "units_available"); err != nil {
		return nil, err
	}
	if stats.EventStatusDistribution, err = o.events.GroupCount(ctx, "status"); err != nil {
		return nil, err
	}
	if stats.RequestStatusDistribution, err = o.receivers.GroupCount(ctx, "status"); err != nil {
		return nil, err
	}
	return &stats, nil
}

// TableCounts returns the row count of one named table, or of every table
// when name is empty.
func (o *StatsOps) TableCounts(ctx context.Context, name string) (map[string]int, error) {
	schemas := store.Schemas
	if name != "" {
		s, ok := store.SchemaByName(name)
		if !ok {
			return nil, errs.New(errs.EInvalid, "resources.Stats.TableCounts", "unknown table %q", name)
		}
		schemas = []store.Schema{s}
	}

	counts := make(map[string]int, len(schemas))
	for _, s := range schemas {
		n, err := o.store.Count(ctx, s, nil)
		if err != nil {
			return nil, err
		}
		counts[s.Name] = n
	}
	return counts, nil
}
