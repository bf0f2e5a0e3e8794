// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/models"
)

func TestParseJSONBody(t *testing.T) {
	t.Run("valid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@example.com","password":"pw"}`))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Email != "a@example.com" {
			t.Errorf("Expected email 'a@example.com', got '%s'", parsed.Email)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{invalid json}`))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})

	t.Run("extra fields ignored", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@example.com","unknown":"x"}`))

		var parsed models.LoginRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
	})
}

func TestDecodeAndValidate(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr bool
		wantMsg string
	}{
		{"valid", `{"email":"a@example.com","password":"secret1","role":"donor"}`, false, ""},
		{"empty body", ``, true, "request body is required"},
		{"malformed", `{"email":`, true, "invalid JSON"},
		{"missing password", `{"email":"a@example.com","role":"donor"}`, true, "password is required"},
		{"bad email", `{"email":"nope","password":"secret1","role":"donor"}`, true, "email must be a valid email address"},
		{"short password", `{"email":"a@example.com","password":"abc","role":"donor"}`, true, "password must satisfy min=6"},
		{"admin self-registration", `{"email":"a@example.com","password":"secret1","role":"admin"}`, true, "role must be one of [donor receiver]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))

			var parsed models.RegisterRequest
			err := DecodeAndValidate(req, &parsed)

			if !tc.wantErr {
				if err != nil {
					t.Fatalf("Expected no error, got: %v", err)
				}
				return
			}
			if errs.ErrorCode(err) != errs.EInvalid {
				t.Fatalf("Expected EInvalid, got: %v", err)
			}
			if !strings.Contains(errs.ErrorMessage(err), tc.wantMsg) {
				t.Errorf("Expected message containing '%s', got '%s'", tc.wantMsg, errs.ErrorMessage(err))
			}
		})
	}
}

func TestValidateRequiredPointers(t *testing.T) {
	f := false
	if err := Validate(models.EligibilityRequest{IsEligible: &f}); err != nil {
		t.Errorf("Expected explicit false to pass, got: %v", err)
	}
	if err := Validate(models.EligibilityRequest{}); errs.ErrorCode(err) != errs.EInvalid {
		t.Errorf("Expected missing is_eligible to fail, got: %v", err)
	}
}

func TestValidateEventTime(t *testing.T) {
	base := `{"title":"Drive","date":"2025-07-01T00:00:00Z","location":"Hall","capacity":10,"time":"%s"}`
	for _, tc := range []struct {
		time string
		ok   bool
	}{
		{"09:30", true},
		{"9am", false},
		{"25:00", false},
	} {
		req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Replace(base, "%s", tc.time, 1)))
		var parsed models.EventCreate
		err := DecodeAndValidate(req, &parsed)
		if (err == nil) != tc.ok {
			t.Errorf("time %q: err = %v, want ok=%v", tc.time, err, tc.ok)
		}
	}
}
