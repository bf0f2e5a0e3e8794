// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/testutil"
)

func TestDonorOwnProfile(t *testing.T) {
	env := newTestEnv(t)
	h := NewDonorHandler(env.res, env.log)
	u := testutil.CreateTestUser(t, env.res, "donor@example.com", models.RoleDonor)

	w := serve(h.Me, asUser(testutil.MakeRequest("GET", "/api/v1/donors/me", nil, nil), u))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	create := models.DonorCreate{Name: "Ana", BloodType: models.BloodBNeg, Age: 29, Weight: 61.5}
	w = serve(h.CreateMe, asUser(testutil.MakeRequest("POST", "/api/v1/donors", create, nil), u))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var d models.Donor
	testutil.AssertJSON(t, w, &d)
	if d.UserID != u.ID || d.BloodType != models.BloodBNeg {
		t.Errorf("Unexpected donor: %+v", d)
	}

	w = serve(h.CreateMe, asUser(testutil.MakeRequest("POST", "/api/v1/donors", create, nil), u))
	testutil.AssertStatus(t, w, http.StatusConflict)

	w = serve(h.UpdateMe, asUser(testutil.MakeRequest("PUT", "/api/v1/donors/me",
		models.DonorUpdate{Weight: ptr(63.0)}, nil), u))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &d)
	if d.Weight != 63.0 || d.Name != "Ana" {
		t.Errorf("Unexpected donor after update: %+v", d)
	}

	w = serve(h.UpdateMe, asUser(testutil.MakeRequest("PUT", "/api/v1/donors/me", map[string]any{}, nil), u))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestDonorCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	h := NewDonorHandler(env.res, env.log)
	u := testutil.CreateTestUser(t, env.res, "donor@example.com", models.RoleDonor)

	tests := []struct {
		name string
		body models.DonorCreate
	}{
		{"missing name", models.DonorCreate{BloodType: models.BloodOPos, Age: 30, Weight: 70}},
		{"bad blood type", models.DonorCreate{Name: "A", BloodType: "C+", Age: 30, Weight: 70}},
		{"too young", models.DonorCreate{Name: "A", BloodType: models.BloodOPos, Age: 16, Weight: 70}},
		{"no weight", models.DonorCreate{Name: "A", BloodType: models.BloodOPos, Age: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h.CreateMe, asUser(testutil.MakeRequest("POST", "/api/v1/donors", tt.body, nil), u))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestDonorAdminOperations(t *testing.T) {
	env := newTestEnv(t)
	h := NewDonorHandler(env.res, env.log)
	_, d := testutil.CreateTestDonor(t, env.res, "donor@example.com")

	req := testutil.MakeRequest("GET", "/api/v1/donors/"+d.ID, nil, nil)
	req.SetPathValue("id", d.ID)
	testutil.AssertStatus(t, serve(h.Get, req), http.StatusOK)

	req = testutil.MakeRequest("PUT", "/api/v1/donors/"+d.ID+"/eligibility", models.EligibilityRequest{IsEligible: ptr(false)}, nil)
	req.SetPathValue("id", d.ID)
	w := serve(h.SetEligibility, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var got models.Donor
	testutil.AssertJSON(t, w, &got)
	if got.IsEligible {
		t.Error("Expected donor to be ineligible")
	}

	w = serve(h.ListIneligible, testutil.MakeRequest("GET", "/api/v1/donors/ineligible", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var list []models.Donor
	testutil.AssertJSON(t, w, &list)
	if len(list) != 1 {
		t.Errorf("Expected 1 ineligible donor, got %d", len(list))
	}

	w = serve(h.ListEligible, testutil.MakeRequest("GET", "/api/v1/donors/eligible", nil, nil))
	testutil.AssertJSON(t, w, &list)
	if len(list) != 0 {
		t.Errorf("Expected 0 eligible donors, got %d", len(list))
	}

	req = testutil.MakeRequest("DELETE", "/api/v1/donors/"+d.ID, nil, nil)
	req.SetPathValue("id", d.ID)
	testutil.AssertStatus(t, serve(h.Delete, req), http.StatusOK)

	req = testutil.MakeRequest("DELETE", "/api/v1/donors/"+d.ID, nil, nil)
	req.SetPathValue("id", d.ID)
	testutil.AssertStatus(t, serve(h.Delete, req), http.StatusNotFound)
}

func TestDonorListPaging(t *testing.T) {
	env := newTestEnv(t)
	h := NewDonorHandler(env.res, env.log)
	testutil.CreateTestDonor(t, env.res, "a@example.com")
	testutil.CreateTestDonor(t, env.res, "b@example.com")

	tests := []struct {
		query    string
		expected int
		count    int
	}{
		{"", http.StatusOK, 2},
		{"?limit=1", http.StatusOK, 1},
		{"?skip=1&limit=5", http.StatusOK, 1},
		{"?limit=100000", http.StatusOK, 2},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?skip=-1", http.StatusBadRequest, 0},
		{"?limit=abc", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := serve(h.List, testutil.MakeRequest("GET", "/api/v1/donors"+tt.query, nil, nil))
			testutil.AssertStatus(t, w, tt.expected)
			if tt.expected != http.StatusOK {
				return
			}
			var list []models.Donor
			testutil.AssertJSON(t, w, &list)
			if len(list) != tt.count {
				t.Errorf("Expected %d donors, got %d", tt.count, len(list))
			}
		})
	}
}

func TestDonorListByBloodType(t *testing.T) {
	env := newTestEnv(t)
	h := NewDonorHandler(env.res, env.log)
	testutil.CreateTestDonor(t, env.res, "a@example.com")
	testutil.CreateTestDonor(t, env.res, "b@example.com")

	u := testutil.CreateTestUser(t, env.res, "neg@example.com", models.RoleDonor)
	if _, err := env.res.Donors.Create(t.Context(), u.ID, models.DonorCreate{
		Name: "Negative", BloodType: models.BloodANeg, Age: 40, Weight: 80,
	}); err != nil {
		t.Fatalf("Failed to create donor: %v", err)
	}

	tests := []struct {
		query    string
		expected int
		count    int
	}{
		{"", http.StatusOK, 3},
		{"?blood_type=O%2B", http.StatusOK, 2},
		{"?blood_type=A-", http.StatusOK, 1},
		{"?blood_type=AB-", http.StatusOK, 0},
		{"?blood_type=O%2B&limit=1", http.StatusOK, 1},
		{"?blood_type=Z", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := serve(h.List, testutil.MakeRequest("GET", "/api/v1/donors"+tt.query, nil, nil))
			testutil.AssertStatus(t, w, tt.expected)
			if tt.expected != http.StatusOK {
				return
			}
			var list []models.Donor
			testutil.AssertJSON(t, w, &list)
			if len(list) != tt.count {
				t.Errorf("Expected %d donors, got %d", tt.count, len(list))
			}
		})
	}
}
