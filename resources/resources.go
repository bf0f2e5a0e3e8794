// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package resources

import (
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/store"
)

// Page is the skip/limit pair accepted by list endpoints.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) query(filters store.Fields, orderBy, dir string) store.Query {
	return store.Query{
		Filters:  filters,
		Limit:    p.Limit,
		Offset:   p.Skip,
		OrderBy:  orderBy,
		OrderDir: dir,
	}
}

// Resources bundles one wrapper per entity.
type Resources struct {
	Users     *UserOps
	Donors    *DonorOps
	Receivers *ReceiverOps
	Events    *EventOps
	Records   *RecordOps
	Inventory *InventoryOps
	Stats     *StatsOps
}

func New(s *store.Store) *Resources {
	users := store.NewTable[models.User](s, store.Users)
	donors := store.NewTable[models.Donor](s, store.Donors)
	receivers := store.NewTable[models.Receiver](s, store.Receivers)
	events := store.NewTable[models.Event](s, store.Events)
	records := store.NewTable[models.DonationRecord](s, store.DonationRecords)
	inventory := store.NewTable[models.InventoryItem](s, store.Inventory)

	return &Resources{
		Users:     &UserOps{table: users},
		Donors:    &DonorOps{table: donors},
		Receivers: &ReceiverOps{table: receivers, now: s.Now},
		Events:    &EventOps{table: events, donors: donors},
		Records:   &RecordOps{table: records, donors: donors, events: events, now: s.Now},
		Inventory: &InventoryOps{table: inventory},
		Stats: &StatsOps{
			store:     s,
			donors:    donors,
			receivers: receivers,
			events:    events,
			records:   records,
			inventory: inventory,
		},
	}
}
