// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/models"
)

// TokenVerifier resolves a bearer token to its subject
type TokenVerifier interface {
	Verify(token string) (subject string, ok bool)
}

// UserGetter loads an account by id
type UserGetter interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

type userKey struct{}

// WithUser returns a context carrying the authenticated user
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// CurrentUser returns the user stored by the gate
func CurrentUser(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey{}).(*models.User)
	return u, ok && u != nil
}

// Gate authenticates bearer tokens and enforces roles. It is the only
// place roles are checked.
type Gate struct {
	verifier TokenVerifier
	users    UserGetter
	log      *zap.Logger
}

func NewGate(verifier TokenVerifier, users UserGetter, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{verifier: verifier, users: users, log: log}
}

// Resolve authenticates the request and returns its user
func (g *Gate) Resolve(r *http.Request) (*models.User, error) {
	const op = "middleware.Gate.Resolve"

	token, ok := bearerToken(r)
	if !ok {
		return nil, errs.New(errs.EUnauthenticated, op, "not authenticated")
	}
	subject, ok := g.verifier.Verify(token)
	if !ok {
		return nil, errs.New(errs.EUnauthenticated, op, "could not validate credentials")
	}

	u, err := g.users.Get(r.Context(), subject)
	if errs.ErrorCode(err) == errs.ENotFound {
		return nil, errs.New(errs.EUnauthenticated, op, "could not validate credentials")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Require admits authenticated users holding one of roles. With no roles
// any authenticated user is admitted.
func (g *Gate) Require(roles ...models.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			u, err := g.Resolve(r)
			if err != nil {
				WriteError(w, r, err)
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, u.Role) {
				g.log.Info("role denied",
					zap.String("user_id", u.ID),
					zap.String("role", string(u.Role)),
					zap.String("path", r.URL.Path),
				)
				WriteError(w, r, errs.New(errs.EForbidden, "middleware.Gate.Require", "not enough permissions"))
				return
			}
			next(w, r.WithContext(WithUser(r.Context(), u)))
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
