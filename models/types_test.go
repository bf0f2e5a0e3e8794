// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleDonor.Valid())
	assert.True(t, RoleReceiver.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestBloodTypeValid(t *testing.T) {
	for _, bt := range BloodTypes {
		assert.True(t, bt.Valid(), bt)
	}
	assert.Len(t, BloodTypes, 8)
	assert.False(t, BloodType("C+").Valid())
}

func TestTestResultsStatus(t *testing.T) {
	tests := []struct {
		name    string
		results TestResults
		want    DonationStatus
	}{
		{"all pass", TestResults{true, true, true, true}, DonationApproved},
		{"hiv fails", TestResults{false, true, true, true}, DonationRejected},
		{"hepatitis b fails", TestResults{true, false, true, true}, DonationRejected},
		{"hepatitis c fails", TestResults{true, true, false, true}, DonationRejected},
		{"syphilis fails", TestResults{true, true, true, false}, DonationRejected},
		{"none pass", TestResults{}, DonationRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.results.Status())
		})
	}
}

func TestDonationRecordJSON(t *testing.T) {
	rec := DonationRecord{
		ID:             "rec-1",
		DonorID:        "donor-1",
		BloodType:      BloodOPos,
		UnitsCollected: 1,
		HIVTest:        true,
		HepatitisBTest: true,
		Status:         DonationCollected,
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))

	assert.Equal(t, "rec-1", out["id"])
	assert.Equal(t, "O+", out["blood_type"])
	assert.NotContains(t, out, "hiv_test")

	results, ok := out["test_results"].(map[string]any)
	require.True(t, ok, "test_results missing: %s", b)
	assert.Equal(t, true, results["hiv"])
	assert.Equal(t, true, results["hepatitis_b"])
	assert.Equal(t, false, results["hepatitis_c"])
	assert.Equal(t, false, results["syphilis"])
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	b, err := json.Marshal(User{ID: "u1", Email: "a@b.c", PasswordHash: "secret-hash", Role: RoleDonor})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret-hash")
	assert.NotContains(t, string(b), "password")
}

func TestDonorIDsValueAndScan(t *testing.T) {
	v, err := DonorIDs{"a", "b"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, v)

	v, err = DonorIDs(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	tests := []struct {
		name string
		src  any
		want DonorIDs
	}{
		{"string", `["x","y"]`, DonorIDs{"x", "y"}},
		{"bytes", []byte(`["z"]`), DonorIDs{"z"}},
		{"empty array", "[]", DonorIDs{}},
		{"empty string", "", DonorIDs{}},
		{"null", nil, DonorIDs{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DonorIDs
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, d)
		})
	}

	var d DonorIDs
	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("{not json"))
}

func TestDonorIDsCopies(t *testing.T) {
	orig := DonorIDs{"a", "b"}

	with := orig.With("c")
	assert.Equal(t, DonorIDs{"a", "b", "c"}, with)
	assert.Equal(t, DonorIDs{"a", "b"}, orig)

	without := with.Without("a")
	assert.Equal(t, DonorIDs{"b", "c"}, without)
	assert.True(t, with.Contains("a"))
	assert.False(t, without.Contains("a"))
}

func TestDonorIDsMarshalJSON(t *testing.T) {
	b, err := json.Marshal(Event{ID: "e1"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"registered_donors":[]`)
}

func TestEventFull(t *testing.T) {
	e := &Event{Capacity: 2, RegisteredDonors: DonorIDs{"a"}}
	assert.False(t, e.Full())
	e.RegisteredDonors = e.RegisteredDonors.With("b")
	assert.True(t, e.Full())
}
