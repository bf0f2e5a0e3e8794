// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package resources_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/testutil"
)

func TestDashboard(t *testing.T) {
	res := testutil.SetupTestResources(t, nil)
	ctx := context.Background()

	_, d := testutil.CreateTestDonor(t, res, "donor@example.com")
	_, r := testutil.CreateTestReceiver(t, res, "recv@example.com")
	_, err := res.Receivers.Update(ctx, r.ID, models.ReceiverUpdate{UrgencyLevel: ptr(models.UrgencyCritical)})
	require.NoError(t, err)
	testutil.CreateTestEvent(t, res, 10)

	_, err = res.Inventory.Create(ctx, models.InventoryCreate{BloodType: models.BloodOPos, UnitsAvailable: 7})
	require.NoError(t, err)
	_, err = res.Inventory.Create(ctx, models.InventoryCreate{BloodType: models.BloodANeg, UnitsAvailable: 5})
	require.NoError(t, err)

	_, err = res.Records.Create(ctx, models.RecordCreate{DonorID: d.ID, BloodType: models.BloodOPos})
	require.NoError(t, err)
	old := testutil.Epoch.AddDate(0, -2, 0)
	_, err = res.Records.Create(ctx, models.RecordCreate{DonorID: d.ID, BloodType: models.BloodOPos, DonationDate: &old})
	require.NoError(t, err)

	stats, err := res.Stats.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDonors)
	assert.Equal(t, 1, stats.TotalReceivers)
	assert.Equal(t, 1, stats.UpcomingEvents)
	assert.Equal(t, int64(12), stats.TotalBloodUnits)
	assert.Equal(t, 1, stats.CriticalRequests)
	assert.Equal(t, 1, stats.RecentDonations)
	assert.Equal(t, map[string]int64{"O+": 7, "A-": 5}, stats.BloodTypeDistribution)
	assert.Equal(t, map[string]int{"upcoming": 1}, stats.EventStatusDistribution)
	assert.Equal(t, map[string]int{"pending": 1}, stats.RequestStatusDistribution)
}

func TestTableCounts(t *testing.T) {
	res := testutil.SetupTestResources(t, nil)
	ctx := context.Background()

	testutil.CreateTestDonor(t, res, "donor@example.com")

	counts, err := res.Stats.TableCounts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, counts["users"])
	assert.Equal(t, 1, counts["donors"])
	assert.Equal(t, 0, counts["blood_inventory"])
	assert.Len(t, counts, 6)

	one, err := res.Stats.TableCounts(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"users": 1}, one)

	_, err = res.Stats.TableCounts(ctx, "users; DROP TABLE users")
	assert.Equal(t, errs.EInvalid, errs.ErrorCode(err))
}
