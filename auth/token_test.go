// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
)

func newTestIssuer(t *testing.T, clk clock.Clock) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer("test-secret", "HS256", 30*time.Minute, clk)
	if err != nil {
		t.Fatalf("NewTokenIssuer() error = %v", err)
	}
	return issuer
}

func newMockClock() *clock.Mock {
	clk := clock.NewMock()
	clk.Set(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return clk
}

func TestNewTokenIssuer(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		alg     string
		ttl     time.Duration
		wantErr error
	}{
		{"HS256", "s", "HS256", time.Minute, nil},
		{"default algorithm", "s", "", time.Minute, nil},
		{"HS512", "s", "HS512", time.Minute, nil},
		{"empty secret", "", "HS256", time.Minute, ErrEmptySecret},
		{"zero ttl", "s", "HS256", 0, ErrInvalidTTL},
		{"RS256 rejected", "s", "RS256", time.Minute, ErrUnsupportedAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenIssuer(tt.secret, tt.alg, tt.ttl, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewTokenIssuer() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIssueAndVerify(t *testing.T) {
	issuer := newTestIssuer(t, newMockClock())

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("Issue() = %q, want three JWT segments", token)
	}

	subject, ok := issuer.Verify(token)
	if !ok {
		t.Fatal("Verify() rejected a fresh token")
	}
	if subject != "user-123" {
		t.Errorf("Verify() subject = %q, want %q", subject, "user-123")
	}
}

func TestVerifyExpiryBoundary(t *testing.T) {
	clk := newMockClock()
	issuer := newTestIssuer(t, clk)

	token, err := issuer.IssueWithTTL("user-1", 10*time.Minute)
	if err != nil {
		t.Fatalf("IssueWithTTL() error = %v", err)
	}

	clk.Add(10*time.Minute - time.Second)
	if _, ok := issuer.Verify(token); !ok {
		t.Error("Verify() rejected token before its lifetime elapsed")
	}

	// Exactly iat+ttl is already expired
	clk.Add(time.Second)
	if _, ok := issuer.Verify(token); ok {
		t.Error("Verify() accepted token at iat+ttl")
	}

	clk.Add(time.Hour)
	if _, ok := issuer.Verify(token); ok {
		t.Error("Verify() accepted token long after expiry")
	}
}

func TestVerifyExpiryBoundarySubsecond(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Date(2025, 6, 1, 12, 0, 0, 600*int(time.Millisecond), time.UTC))
	issuer := newTestIssuer(t, clk)

	token, err := issuer.IssueWithTTL("user-1", 10*time.Minute)
	if err != nil {
		t.Fatalf("IssueWithTTL() error = %v", err)
	}

	// 300ms short of the lifetime measured from the fractional issue time
	clk.Add(10*time.Minute - 300*time.Millisecond)
	if _, ok := issuer.Verify(token); !ok {
		t.Error("Verify() rejected token before its lifetime elapsed")
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("ParseUnverified() error = %v", err)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 10*time.Minute {
		t.Errorf("exp - iat = %v, want 10m", got)
	}
}

func TestVerifyRejects(t *testing.T) {
	clk := newMockClock()
	issuer := newTestIssuer(t, clk)
	good, _ := issuer.Issue("user-1")

	other, err := NewTokenIssuer("other-secret", "HS256", time.Minute, clk)
	if err != nil {
		t.Fatalf("NewTokenIssuer() error = %v", err)
	}
	foreign, _ := other.Issue("user-1")

	hs512, err := NewTokenIssuer("test-secret", "HS512", time.Minute, clk)
	if err != nil {
		t.Fatalf("NewTokenIssuer() error = %v", err)
	}
	wrongAlg, _ := hs512.Issue("user-1")

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
	}).SignedString([]byte("test-secret"))

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"random text", "hello world"},
		{"truncated", good[:len(good)-5]},
		{"wrong secret", foreign},
		{"wrong algorithm", wrongAlg},
		{"no expiry", noExp},
		{"no subject", noSub},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if subject, ok := issuer.Verify(tt.token); ok {
				t.Errorf("Verify() accepted token, subject = %q", subject)
			}
		})
	}
}

func TestIssueWithTTLRejectsBadInput(t *testing.T) {
	issuer := newTestIssuer(t, newMockClock())

	if _, err := issuer.IssueWithTTL("", time.Minute); err != ErrEmptyTokenSubject {
		t.Errorf("IssueWithTTL(empty subject) error = %v", err)
	}
	if _, err := issuer.IssueWithTTL("user-1", -time.Second); err != ErrInvalidTTL {
		t.Errorf("IssueWithTTL(negative ttl) error = %v", err)
	}
}
