// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
)

// DonorIDs is the ordered registration list of an event, stored as a JSON
// array in a text column.
type DonorIDs []string

// Value encodes the list; nil encodes as "[]".
func (d DonorIDs) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(d))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *DonorIDs) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = DonorIDs{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into DonorIDs", src)
	}

	var ids []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ids); err != nil {
			return fmt.Errorf("failed to decode registered donors: %w", err)
		}
	}
	if ids == nil {
		ids = []string{}
	}
	*d = ids
	return nil
}

// MarshalJSON never emits null.
func (d DonorIDs) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(d))
}

func (d DonorIDs) Contains(id string) bool {
	return slices.Contains(d, id)
}

// With returns a copy with id appended.
func (d DonorIDs) With(id string) DonorIDs {
	out := make(DonorIDs, 0, len(d)+1)
	out = append(out, d...)
	return append(out, id)
}

// Without returns a copy with id removed.
func (d DonorIDs) Without(id string) DonorIDs {
	out := make(DonorIDs, 0, len(d))
	for _, v := range d {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
