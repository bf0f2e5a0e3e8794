// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/bloodbank/auth"
	"github.com/danielhkuo/bloodbank/cliparse"
	"github.com/danielhkuo/bloodbank/db"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/resources"
	"github.com/danielhkuo/bloodbank/store"
)

// TestPassword is the password of every user made by CreateTestUser
const TestPassword = "password123"

// Epoch is the instant NewMockClock starts at
var Epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// NewMockClock returns a mock clock set to Epoch
func NewMockClock() *clock.Mock {
	clk := clock.NewMock()
	clk.Set(Epoch)
	return clk
}

// SetupTestDB creates a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, store.SQLite, ":memory:", db.PoolConfig{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn, store.SQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// SetupTestStore wraps SetupTestDB in a store with no retry pause
func SetupTestStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	opts = append([]store.Option{store.WithRetryInterval(0)}, opts...)
	return store.New(SetupTestDB(t), store.SQLite, opts...)
}

// SetupTestResources returns wrappers over a fresh store
func SetupTestResources(t *testing.T, clk clock.Clock) *resources.Resources {
	t.Helper()
	if clk == nil {
		clk = NewMockClock()
	}
	return resources.New(SetupTestStore(t, store.WithClock(clk)))
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8000,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		JWTSecret:    "test-jwt-secret",
		JWTAlgorithm: "HS256",
		TokenTTL:     30 * time.Minute,
		CORSOrigins:  []string{"http://localhost:3000"},
		LogLevel:     "info",
		LogFormat:    "json",
	}
}

// NewTestIssuer builds a token issuer from GetTestConfig
func NewTestIssuer(t *testing.T, clk clock.Clock) *auth.TokenIssuer {
	t.Helper()
	cfg := GetTestConfig()
	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL, clk)
	if err != nil {
		t.Fatalf("Failed to create token issuer: %v", err)
	}
	return issuer
}

// CreateTestUser registers a user with TestPassword
func CreateTestUser(t *testing.T, res *resources.Resources, email string, role models.Role) *models.User {
	t.Helper()
	u, err := res.Users.Create(context.Background(), email, TestPassword, role)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// CreateTestDonor creates a donor user with an eligible O+ profile
func CreateTestDonor(t *testing.T, res *resources.Resources, email string) (*models.User, *models.Donor) {
	t.Helper()
	u := CreateTestUser(t, res, email, models.RoleDonor)
	d, err := res.Donors.Create(context.Background(), u.ID, models.DonorCreate{
		Name:      "Test Donor",
		BloodType: models.BloodOPos,
		Age:       30,
		Weight:    72,
	})
	if err != nil {
		t.Fatalf("Failed to create test donor: %v", err)
	}
	return u, d
}

// CreateTestReceiver creates a receiver user with a pending A+ request
func CreateTestReceiver(t *testing.T, res *resources.Resources, email string) (*models.User, *models.Receiver) {
	t.Helper()
	u := CreateTestUser(t, res, email, models.RoleReceiver)
	r, err := res.Receivers.Create(context.Background(), u.ID, models.ReceiverCreate{
		Name:      "Test Receiver",
		BloodType: models.BloodAPos,
	})
	if err != nil {
		t.Fatalf("Failed to create test receiver: %v", err)
	}
	return u, r
}

// CreateTestEvent creates an upcoming event a week after Epoch
func CreateTestEvent(t *testing.T, res *resources.Resources, capacity int) *models.Event {
	t.Helper()
	ev, err := res.Events.Create(context.Background(), models.EventCreate{
		Title:     "Community Drive",
		Date:      Epoch.Add(7 * 24 * time.Hour),
		StartTime: "09:00",
		Location:  "Town Hall",
		Capacity:  capacity,
	})
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return ev
}

// AuthHeader returns an Authorization header for user
func AuthHeader(t *testing.T, issuer *auth.TokenIssuer, user *models.User) map[string]string {
	t.Helper()
	token, err := issuer.Issue(user.ID)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
