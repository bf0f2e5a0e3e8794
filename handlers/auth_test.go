// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/testutil"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.res, env.issuer, env.log)

	testutil.CreateTestUser(t, env.res, "taken@example.com", models.RoleDonor)

	tests := []struct {
		name     string
		body     interface{}
		expected int
	}{
		{"donor", models.RegisterRequest{Email: "new@example.com", Password: "secret1", Role: models.RoleDonor}, http.StatusCreated},
		{"receiver", models.RegisterRequest{Email: "recv@example.com", Password: "secret1", Role: models.RoleReceiver}, http.StatusCreated},
		{"duplicate email", models.RegisterRequest{Email: "taken@example.com", Password: "secret1", Role: models.RoleDonor}, http.StatusConflict},
		{"admin not allowed", models.RegisterRequest{Email: "boss@example.com", Password: "secret1", Role: models.RoleAdmin}, http.StatusBadRequest},
		{"short password", models.RegisterRequest{Email: "x@example.com", Password: "123", Role: models.RoleDonor}, http.StatusBadRequest},
		{"bad email", models.RegisterRequest{Email: "not-an-email", Password: "secret1", Role: models.RoleDonor}, http.StatusBadRequest},
		{"no body", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h.Register, testutil.MakeRequest("POST", "/api/v1/auth/register", tt.body, nil))
			testutil.AssertStatus(t, w, tt.expected)
		})
	}
}

func TestRegisterHidesPasswordHash(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.res, env.issuer, env.log)

	w := serve(h.Register, testutil.MakeRequest("POST", "/api/v1/auth/register",
		models.RegisterRequest{Email: "a@example.com", Password: "secret1", Role: models.RoleDonor}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var body map[string]interface{}
	testutil.AssertJSON(t, w, &body)
	if _, ok := body["password_hash"]; ok {
		t.Error("Response exposes password_hash")
	}
	if body["email"] != "a@example.com" {
		t.Errorf("Expected email 'a@example.com', got %v", body["email"])
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.res, env.issuer, env.log)
	u := testutil.CreateTestUser(t, env.res, "donor@example.com", models.RoleDonor)

	t.Run("valid credentials", func(t *testing.T) {
		w := serve(h.Login, testutil.MakeRequest("POST", "/api/v1/auth/login",
			models.LoginRequest{Email: "donor@example.com", Password: testutil.TestPassword}, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.TokenResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.TokenType != "bearer" {
			t.Errorf("Expected token_type 'bearer', got '%s'", resp.TokenType)
		}
		if resp.ExpiresIn != 1800 {
			t.Errorf("Expected expires_in 1800, got %d", resp.ExpiresIn)
		}
		subject, ok := env.issuer.Verify(resp.AccessToken)
		if !ok || subject != u.ID {
			t.Errorf("Token verifies to (%q, %v), want (%q, true)", subject, ok, u.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := serve(h.Login, testutil.MakeRequest("POST", "/api/v1/auth/login",
			models.LoginRequest{Email: "donor@example.com", Password: "nope"}, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
		if w.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Error("Expected WWW-Authenticate challenge")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		w := serve(h.Login, testutil.MakeRequest("POST", "/api/v1/auth/login",
			models.LoginRequest{Email: "ghost@example.com", Password: testutil.TestPassword}, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.res, env.issuer, env.log)
	u := testutil.CreateTestUser(t, env.res, "me@example.com", models.RoleReceiver)

	w := serve(h.Me, asUser(testutil.MakeRequest("GET", "/api/v1/auth/me", nil, nil), u))
	testutil.AssertStatus(t, w, http.StatusOK)

	var got models.User
	testutil.AssertJSON(t, w, &got)
	if got.ID != u.ID || got.Role != models.RoleReceiver {
		t.Errorf("Unexpected user: %+v", got)
	}

	w = serve(h.Me, testutil.MakeRequest("GET", "/api/v1/auth/me", nil, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
