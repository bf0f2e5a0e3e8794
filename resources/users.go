// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package resources

import (
	"context"
	"errors"
	"strings"

	"github.com/danielhkuo/bloodbank/auth"
	"github.com/danielhkuo/bloodbank/errs"
	"github.com/danielhkuo/bloodbank/models"
	"github.com/danielhkuo/bloodbank/store"
)

type UserOps struct {
	table *store.Table[models.User]
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create hashes the password and stores a new account.
// A taken email is EConflict.
func (o *UserOps) Create(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	const op = "resources.Users.Create"
	if !role.Valid() {
		return nil, errs.New(errs.EInvalid, op, "unknown role %q", role)
	}

	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, errs.New(errs.EInvalid, op, "password must be at most 72 bytes")
	}
	if err != nil {
		return nil, errs.Wrap(errs.EInternal, op, err)
	}

	u, err := o.table.Create(ctx, store.Fields{
		"email":         normalizeEmail(email),
		"password_hash": hash,
		"role":          role,
	})
	if errs.ErrorCode(err) == errs.EConflict {
		return nil, errs.New(errs.EConflict, op, "email already registered")
	}
	return u, err
}

// Authenticate returns the account for valid credentials. Unknown email
// and wrong password are indistinguishable.
func (o *UserOps) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	const op = "resources.Users.Authenticate"
	u, err := o.GetByEmail(ctx, email)
	if errs.ErrorCode(err) == errs.ENotFound {
		return nil, errs.New(errs.EUnauthenticated, op, "incorrect email or password")
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(password, u.PasswordHash) {
		return nil, errs.New(errs.EUnauthenticated, op, "incorrect email or password")
	}
	return u, nil
}

func (o *UserOps) Get(ctx context.Context, id string) (*models.User, error) {
	return o.table.GetByID(ctx, id)
}

func (o *UserOps) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return o.table.First(ctx, store.Fields{"email": normalizeEmail(email)})
}

// List returns accounts oldest first, optionally only those holding role.
func (o *UserOps) List(ctx context.Context, role *models.Role, page Page) ([]models.User, error) {
	return o.table.List(ctx, page.query(store.Fields{"role": role}, "created_at", "ASC"))
}

func (o *UserOps) Delete(ctx context.Context, id string) (bool, error) {
	return o.table.Delete(ctx, id)
}

func (o *UserOps) Count(ctx context.Context) (int, error) {
	return o.table.Count(ctx, nil)
}
