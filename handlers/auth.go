// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/bloodbank/auth"
	"github.com/danielhkuo/bloodbank/middleware"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/resources"
)

type AuthHandler struct {
	users  *resources.UserOps
	issuer *auth.TokenIssuer
	log    *zap.Logger
}

func NewAuthHandler(res *resources.Resources, issuer *auth.TokenIssuer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: res.Users, issuer: issuer, log: log}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	u, err := h.users.Create(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	h.log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	middleware.JSONResponse(w, http.StatusCreated, u)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	token, err := h.issuer.Issue(u.ID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.issuer.TTL().Seconds()),
		User:        u,
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := user(r)
	respond(w, r, http.StatusOK, u, err)
}
