// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/danielhkuo/bloodbank/auth"
	"github.com/danielhkuo/bloodbank/middleware"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/resources"
	"github.com/danielhkuo/bloodbank/testutil"
)

type testEnv struct {
	clk    *clock.Mock
	res    *resources.Resources
	issuer *auth.TokenIssuer
	log    *zap.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clk := testutil.NewMockClock()
	return &testEnv{
		clk:    clk,
		res:    testutil.SetupTestResources(t, clk),
		issuer: testutil.NewTestIssuer(t, clk),
		log:    zap.NewNop(),
	}
}

// asUser attaches u to the request the way the gate does
func asUser(req *http.Request, u *models.User) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), u))
}

// serve runs h on req and returns the recorder
func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func ptr[T any](v T) *T { return &v }
