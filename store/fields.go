// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql/driver"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/danielhkuo/bloodbank/errs"
)

// Fields maps column names to values. A nil value, or a nil pointer, means
// "not supplied" and is dropped before any SQL is built.
type Fields map[string]any

// FieldsFrom collects the `db`-tagged fields of a request struct.
func FieldsFrom(v any) Fields {
	out := Fields{}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return out
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return out
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		if col == "" || col == "-" {
			continue
		}
		out[col] = rv.Field(i).Interface()
	}
	return out
}

// Merge returns a copy of f overlaid with other.
func (f Fields) Merge(other Fields) Fields {
	out := make(Fields, len(f)+len(other))
	maps.Copy(out, f)
	maps.Copy(out, other)
	return out
}

// normalize drops unsupplied entries and converts the rest to driver
// values, so named types and pointers never reach the driver.
func (f Fields) normalize(op string, schema Schema) (map[string]any, error) {
	out := make(map[string]any, len(f))
	for _, col := range slices.Sorted(maps.Keys(f)) {
		if !schema.Has(col) {
			return nil, errs.New(errs.EInvalid, op, "unknown column %q for %s", col, schema.Name)
		}
		v, ok, err := driverValue(f[col])
		if err != nil {
			return nil, errs.New(errs.EInvalid, op, "bad value for %s: %v", col, err)
		}
		if ok {
			out[col] = v
		}
	}
	return out, nil
}

// driverValue reports ok=false for nil and nil pointers.
func driverValue(v any) (driver.Value, bool, error) {
	if v == nil {
		return nil, false, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, false, nil
	}
	dv, err := driver.DefaultParameterConverter.ConvertValue(v)
	if err != nil {
		return nil, false, err
	}
	// Stored times are UTC so text-backed dialects compare them correctly.
	if tm, ok := dv.(time.Time); ok {
		dv = tm.UTC()
	}
	return dv, true, nil
}
