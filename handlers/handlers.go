// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/middleware"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/resources"
	"github.com/danielhkuo/bloodbank/store"
)

// pageFrom reads ?skip and ?limit. Limits above store.MaxLimit are capped.
func pageFrom(r *http.Request) (resources.Page, error) {
	const op = "handlers.pageFrom"
	var p resources.Page
	q := r.URL.Query()

	if s := q.Get("skip"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return p, errs.New(errs.EInvalid, op, "skip must be a non-negative integer")
		}
		p.Skip = n
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return p, errs.New(errs.EInvalid, op, "limit must be a positive integer")
		}
		p.Limit = min(n, store.MaxLimit)
	}
	return p, nil
}

// queryEnum reads an optional enum query parameter. valid lists the
// accepted values.
func queryEnum[T ~string](r *http.Request, name string, valid ...T) (*T, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	for _, v := range valid {
		if T(s) == v {
			return &v, nil
		}
	}
	return nil, errs.New(errs.EInvalid, "handlers.queryEnum", "unknown %s %q", name, s)
}

// user returns the gate-authenticated caller
func user(r *http.Request) (*models.User, error) {
	u, ok := middleware.CurrentUser(r.Context())
	if !ok {
		return nil, errs.New(errs.EUnauthenticated, "handlers.user", "not authenticated")
	}
	return u, nil
}

// deleted writes the outcome of a delete. A missing row is 404.
func deleted(w http.ResponseWriter, r *http.Request, kind string, removed bool, err error) {
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if !removed {
		middleware.WriteError(w, r, errs.New(errs.ENotFound, "handlers.delete", "%s not found", kind))
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: kind + " deleted successfully"})
}

// respond writes v with status, or the error
func respond(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, status, v)
}
