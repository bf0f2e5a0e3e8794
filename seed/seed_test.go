// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/resources"
	"github.com/danielhkuo/bloodbank/seed"
	"github.com/danielhkuo/bloodbank/testutil"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	res := testutil.SetupTestResources(t, nil)

	require.NoError(t, seed.Run(ctx, res, testutil.Epoch, nil))

	admin, err := res.Users.Authenticate(ctx, seed.AdminEmail, seed.AdminPassword)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	donorUser, err := res.Users.Authenticate(ctx, seed.DonorEmail, seed.DonorPassword)
	require.NoError(t, err)
	donor, err := res.Donors.GetByUser(ctx, donorUser.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BloodOPos, donor.BloodType)

	receiverUser, err := res.Users.Authenticate(ctx, seed.ReceiverEmail, seed.ReceiverPassword)
	require.NoError(t, err)
	receiver, err := res.Receivers.GetByUser(ctx, receiverUser.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyHigh, receiver.UrgencyLevel)
	assert.Equal(t, models.RequestPending, receiver.Status)

	events, err := res.Events.Upcoming(ctx, resources.Page{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].RegisteredDonors.Contains(donor.ID))
	assert.True(t, events[0].Date.After(testutil.Epoch))

	items, err := res.Inventory.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, len(models.BloodTypes))

	oPos, err := res.Inventory.GetByBloodType(ctx, models.BloodOPos)
	require.NoError(t, err)
	assert.Equal(t, 30, oPos.UnitsAvailable)

	records, err := res.Records.ListByDonor(ctx, donor.ID, resources.Page{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.DonationApproved, records[0].Status)
	assert.True(t, records[0].TestResults().Passed())
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	res := testutil.SetupTestResources(t, nil)

	require.NoError(t, seed.Run(ctx, res, testutil.Epoch, nil))
	require.NoError(t, seed.Run(ctx, res, testutil.Epoch, nil))

	counts, err := res.Stats.TableCounts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, counts["users"])
	assert.Equal(t, 1, counts["donors"])
	assert.Equal(t, 1, counts["blood_receivers"])
	assert.Equal(t, 1, counts["donation_events"])
	assert.Equal(t, 1, counts["donation_records"])
	assert.Equal(t, 8, counts["blood_inventory"])

	events, err := res.Events.Upcoming(ctx, resources.Page{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Len(t, events[0].RegisteredDonors, 1)
}
