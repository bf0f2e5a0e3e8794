// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/store"
	"github.com/danielhkuo/bloodbank/testutil"
)

func newUser(t *testing.T, users *store.Table[models.User], email string) *models.User {
	t.Helper()
	u, err := users.Create(context.Background(), store.Fields{
		"email":         email,
		"password_hash": "hash",
		"role":          models.RoleDonor,
	})
	require.NoError(t, err)
	return u
}

func TestCreateGetRoundTrip(t *testing.T) {
	clk := testutil.NewMockClock()
	s := testutil.SetupTestStore(t, store.WithClock(clk))
	users := store.NewTable[models.User](s, store.Users)
	ctx := context.Background()

	created := newUser(t, users, "a@example.com")

	assert.Len(t, created.ID, 36)
	assert.Equal(t, "a@example.com", created.Email)
	assert.Equal(t, models.RoleDonor, created.Role)
	assert.True(t, clk.Now().Equal(created.CreatedAt), "created_at = %v", created.CreatedAt)
	assert.True(t, clk.Now().Equal(created.UpdatedAt))

	got, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Email, got.Email)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestCreateKeepsSuppliedID(t *testing.T) {
	s := testutil.SetupTestStore(t)
	users := store.NewTable[models.User](s, store.Users)

	u, err := users.Create(context.Background(), store.Fields{
		"id":            "11111111-1111-1111-1111-111111111111",
		"email":         "a@example.com",
		"password_hash": "hash",
		"role":          models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", u.ID)
}

func TestCreateRejectsManagedColumns(t *testing.T) {
	s := testutil.SetupTestStore(t)
	users := store.NewTable[models.User](s, store.Users)

	_, err := users.Create(context.Background(), store.Fields{
		"email":         "a@example.com",
		"password_hash": "hash",
		"role":          models.RoleDonor,
		"created_at":    time.Now(),
	})
	assert.Equal(t, errs.EInvalid, errs.ErrorCode(err))
}

func TestDuplicateUniqueKey(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()

	users := store.NewTable[models.User](s, store.Users)
	newUser(t, users, "dup@example.com")
	_, err := users.Create(ctx, store.Fields{
		"email":         "dup@example.com",
		"password_hash": "other",
		"role":          models.RoleReceiver,
	})
	assert.Equal(t, errs.EConflict, errs.ErrorCode(err))

	inv := store.NewTable[models.InventoryItem](s, store.Inventory)
	_, err = inv.Create(ctx, store.Fields{"blood_type": models.BloodOPos, "units_available": 5})
	require.NoError(t, err)
	_, err = inv.Create(ctx, store.Fields{"blood_type": models.BloodOPos, "units_available": 9})
	assert.Equal(t, errs.EConflict, errs.ErrorCode(err))
}

func TestForeignKeys(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()
	users := store.NewTable[models.User](s, store.Users)
	donors := store.NewTable[models.Donor](s, store.Donors)

	donorFields := store.Fields{
		"name":       "Dana",
		"blood_type": models.BloodAPos,
		"age":        30,
		"weight":     70.5,
	}

	// Unknown owner
	_, err := donors.Create(ctx, donorFields.Merge(store.Fields{"user_id": "no-such-user"}))
	assert.Equal(t, errs.EConflict, errs.ErrorCode(err))

	u := newUser(t, users, "dana@example.com")
	d, err := donors.Create(ctx, donorFields.Merge(store.Fields{"user_id": u.ID}))
	require.NoError(t, err)
	assert.Equal(t, 1, d.DonationUnits, "schema default")
	assert.True(t, d.IsEligible, "schema default")
	assert.InDelta(t, 70.5, d.Weight, 0.001)

	// Deleting the user cascades to the donor profile
	deleted, err := users.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = donors.GetByID(ctx, d.ID)
	assert.Equal(t, errs.ENotFound, errs.ErrorCode(err))
}

func TestUpdate(t *testing.T) {
	clk := testutil.NewMockClock()
	s := testutil.SetupTestStore(t, store.WithClock(clk))
	users := store.NewTable[models.User](s, store.Users)
	ctx := context.Background()

	u := newUser(t, users, "old@example.com")
	clk.Add(time.Minute)

	email := "new@example.com"
	var role *models.Role
	updated, err := users.Update(ctx, u.ID, store.Fields{"email": &email, "role": role})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, models.RoleDonor, updated.Role, "nil field left unchanged")
	assert.True(t, u.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, clk.Now().Equal(updated.UpdatedAt))

	_, err = users.Update(ctx, u.ID, store.Fields{})
	assert.Equal(t, errs.EInvalid, errs.ErrorCode(err))

	_, err = users.Update(ctx, "missing", store.Fields{"email": "x@example.com"})
	assert.Equal(t, errs.ENotFound, errs.ErrorCode(err))
}

func TestUpdateByField(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()
	users := store.NewTable[models.User](s, store.Users)

	newUser(t, users, "a@example.com")
	newUser(t, users, "b@example.com")

	rows, err := users.UpdateByField(ctx, "email", "a@example.com", store.Fields{"role": models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.RoleAdmin, rows[0].Role)

	n, err := users.Count(ctx, store.Fields{"role": models.RoleDonor})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = users.UpdateByField(ctx, "email", nil, store.Fields{"role": models.RoleAdmin})
	assert.Equal(t, errs.EInvalid, errs.ErrorCode(err))
}

func TestDeleteIdempotent(t *testing.T) {
	s := testutil.SetupTestStore(t)
	users := store.NewTable[models.User](s, store.Users)
	ctx := context.Background()

	u := newUser(t, users, "a@example.com")

	deleted, err := users.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = users.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListFiltersAndOrder(t *testing.T) {
	s := testutil.SetupTestStore(t)
	users := store.NewTable[models.User](s, store.Users)
	ctx := context.Background()

	for _, email := range []string{"c@example.com", "a@example.com", "b@example.com"} {
		newUser(t, users, email)
	}
	_, err := users.Create(ctx, store.Fields{"email": "admin@example.com", "password_hash": "h", "role": models.RoleAdmin})
	require.NoError(t, err)

	rows, err := users.List(ctx, store.Query{
		Filters: store.Fields{"role": models.RoleDonor, "email": nil},
		OrderBy: "email",
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "a@example.com", rows[0].Email)
	assert.Equal(t, "c@example.com", rows[2].Email)

	rows, err = users.List(ctx, store.Query{
		Filters:  store.Fields{"role": models.RoleDonor},
		OrderBy:  "email",
		OrderDir: "DESC",
		Limit:    1,
		Offset:   1,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b@example.com", rows[0].Email)

	byField, err := users.GetByField(ctx, "email", "admin@example.com")
	require.NoError(t, err)
	require.Len(t, byField, 1)
	assert.Equal(t, models.RoleAdmin, byField[0].Role)

	_, err = users.First(ctx, store.Fields{"email": "nobody@example.com"})
	assert.Equal(t, errs.ENotFound, errs.ErrorCode(err))
}

func TestInventoryDelta(t *testing.T) {
	s := testutil.SetupTestStore(t)
	inv := store.NewTable[models.InventoryItem](s, store.Inventory)
	ctx := context.Background()

	item, err := inv.Create(ctx, store.Fields{"blood_type": models.BloodBNeg, "units_available": 10})
	require.NoError(t, err)

	_, err = inv.AddInt(ctx, item.ID, "units_available", -15, 0)
	assert.Equal(t, errs.EInvalid, errs.ErrorCode(err))

	unchanged, err := inv.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, unchanged.UnitsAvailable)

	drained, err := inv.AddInt(ctx, item.ID, "units_available", -10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, drained.UnitsAvailable)

	_, err = inv.AddInt(ctx, "missing", "units_available", 1, 0)
	assert.Equal(t, errs.ENotFound, errs.ErrorCode(err))
}

func TestInventoryTouchColumn(t *testing.T) {
	clk := testutil.NewMockClock()
	s := testutil.SetupTestStore(t, store.WithClock(clk))
	inv := store.NewTable[models.InventoryItem](s, store.Inventory)
	ctx := context.Background()

	item, err := inv.Create(ctx, store.Fields{"blood_type": models.BloodAPos, "units_available": 1})
	require.NoError(t, err)
	assert.True(t, clk.Now().Equal(item.LastUpdated))

	clk.Add(time.Hour)
	item, err = inv.AddInt(ctx, item.ID, "units_available", 4, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, item.UnitsAvailable)
	assert.True(t, clk.Now().Equal(item.LastUpdated))

	_, err = inv.Update(ctx, item.ID, store.Fields{"last_updated": clk.Now()})
	assert.Equal(t, errs.EInvalid, errs.ErrorCode(err))
}

func TestCompareAndSwap(t *testing.T) {
	s := testutil.SetupTestStore(t)
	events := store.NewTable[models.Event](s, store.Events)
	ctx := context.Background()

	ev, err := events.Create(ctx, store.Fields{
		"title":             "Drive",
		"event_date":        time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		"start_time":        "09:00",
		"location":          "Hall",
		"capacity":          2,
		"registered_donors": models.DonorIDs{},
		"status":            models.EventUpcoming,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DonorIDs{}, ev.RegisteredDonors)

	ok, err := events.CompareAndSwap(ctx, ev.ID, "registered_donors", ev.RegisteredDonors, ev.RegisteredDonors.With("d1"))
	require.NoError(t, err)
	assert.True(t, ok)

	// Stale guard loses
	ok, err = events.CompareAndSwap(ctx, ev.ID, "registered_donors", ev.RegisteredDonors, ev.RegisteredDonors.With("d2"))
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := events.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DonorIDs{"d1"}, got.RegisteredDonors)
}

func TestAggregates(t *testing.T) {
	clk := testutil.NewMockClock()
	s := testutil.SetupTestStore(t, store.WithClock(clk))
	inv := store.NewTable[models.InventoryItem](s, store.Inventory)
	users := store.NewTable[models.User](s, store.Users)
	ctx := context.Background()

	for bt, units := range map[models.BloodType]int{models.BloodAPos: 3, models.BloodONeg: 7, models.BloodABPos: 0} {
		_, err := inv.Create(ctx, store.Fields{"blood_type": bt, "units_available": units})
		require.NoError(t, err)
	}

	total, err := inv.Sum(ctx, "units_available", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)

	total, err = inv.Sum(ctx, "units_available", store.Fields{"blood_type": models.BloodONeg})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)

	dist, err := inv.GroupSum(ctx, "blood_type", "units_available")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"A+": 3, "O-": 7, "AB+": 0}, dist)

	newUser(t, users, "a@example.com")
	clk.Add(48 * time.Hour)
	newUser(t, users, "b@example.com")
	newUser(t, users, "c@example.com")

	byRole, err := users.GroupCount(ctx, "role")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"donor": 3}, byRole)

	recent, err := users.CountSince(ctx, "created_at", clk.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, recent)

	n, err := s.Count(ctx, store.Users, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = inv.Sum(ctx, "nope", nil)
	assert.Equal(t, errs.EInvalid, errs.ErrorCode(err))
	_, err = users.GroupCount(ctx, "password_hash) FROM users; --")
	assert.Equal(t, errs.EInvalid, errs.ErrorCode(err))
}

func TestSchemaByName(t *testing.T) {
	s, ok := store.SchemaByName("blood_inventory")
	require.True(t, ok)
	assert.True(t, s.Has("units_available"))
	assert.False(t, s.Has("email"))

	_, ok = store.SchemaByName("sqlite_master")
	assert.False(t, ok)
}

func TestFieldsFrom(t *testing.T) {
	name := "Dana"
	req := models.DonorUpdate{Name: &name}

	f := store.FieldsFrom(req)
	assert.Equal(t, &name, f["name"])
	assert.Contains(t, f, "blood_type")
	assert.NotContains(t, f, "Name")

	assert.Empty(t, store.FieldsFrom((*models.DonorUpdate)(nil)))
	assert.Empty(t, store.FieldsFrom(42))

	// Password has no db tag
	assert.Empty(t, store.FieldsFrom(models.LoginRequest{Email: "a@b.c", Password: "x"}))
}
