// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/danielhkuo/bloodbank/errs"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Query describes a List call. Filters are an exact-match conjunction.
type Query struct {
	Filters  Fields
	Limit    int
	Offset   int
	OrderBy  string
	OrderDir string
}

// Table binds a schema to its row type.
type Table[T any] struct {
	store  *Store
	schema Schema
}

func NewTable[T any](s *Store, schema Schema) *Table[T] {
	return &Table[T]{store: s, schema: schema}
}

func (t *Table[T]) Schema() Schema {
	return t.schema
}

func (t *Table[T]) op(name string) string {
	return "store." + t.schema.Name + "." + name
}

func (t *Table[T]) selectAll() sq.SelectBuilder {
	return t.store.sb.Select(t.schema.Columns...).From(t.schema.Name)
}

// stamp sets the store-managed timestamps for a write.
func (t *Table[T]) stamp(values map[string]any, now time.Time, create bool) {
	values["updated_at"] = now
	if create {
		values["created_at"] = now
	}
	for _, col := range t.schema.Touch {
		values[col] = now
	}
}

// Create inserts a row and returns it as stored. The id is generated unless
// supplied.
func (t *Table[T]) Create(ctx context.Context, fields Fields) (*T, error) {
	op := t.op("Create")
	values, err := fields.normalize(op, t.schema)
	if err != nil {
		return nil, err
	}
	for col := range values {
		if col != "id" && t.schema.managed(col) {
			return nil, errs.New(errs.EInvalid, op, "column %q is set by the store", col)
		}
	}

	id, _ := values["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}
	values["id"] = id
	t.stamp(values, t.store.Now(), true)

	if _, err := t.store.exec(ctx, op, t.store.sb.Insert(t.schema.Name).SetMap(values)); err != nil {
		return nil, err
	}
	return t.GetByID(ctx, id)
}

// GetByID returns ENotFound when no row has the id.
func (t *Table[T]) GetByID(ctx context.Context, id string) (*T, error) {
	op := t.op("GetByID")
	var row T
	err := t.store.get(ctx, op, &row, t.selectAll().Where(sq.Eq{"id": id}))
	if errs.ErrorCode(err) == errs.ENotFound {
		return nil, errs.New(errs.ENotFound, op, "%s record %s not found", t.schema.Name, id)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByField returns every row whose field equals value.
func (t *Table[T]) GetByField(ctx context.Context, field string, value any) ([]T, error) {
	if _, ok, _ := driverValue(value); !ok {
		return nil, errs.New(errs.EInvalid, t.op("GetByField"), "match value for %q is required", field)
	}
	return t.List(ctx, Query{Filters: Fields{field: value}, Limit: MaxLimit})
}

// First returns the first row matching filters, or ENotFound.
func (t *Table[T]) First(ctx context.Context, filters Fields) (*T, error) {
	rows, err := t.List(ctx, Query{Filters: filters, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.New(errs.ENotFound, t.op("First"), "%s record not found", t.schema.Name)
	}
	return &rows[0], nil
}

// List returns at most Limit rows (DefaultLimit when zero, capped at
// MaxLimit). Nil filter values are ignored.
func (t *Table[T]) List(ctx context.Context, q Query) ([]T, error) {
	op := t.op("List")
	where, err := q.Filters.normalize(op, t.schema)
	if err != nil {
		return nil, err
	}

	if q.Limit < 0 || q.Offset < 0 {
		return nil, errs.New(errs.EInvalid, op, "limit and offset must not be negative")
	}
	limit := q.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	b := t.selectAll().Limit(uint64(limit)).Offset(uint64(q.Offset))
	if len(where) > 0 {
		b = b.Where(sq.Eq(where))
	}

	if q.OrderBy != "" {
		if !t.schema.Has(q.OrderBy) {
			return nil, errs.New(errs.EInvalid, op, "cannot order %s by unknown column %q", t.schema.Name, q.OrderBy)
		}
		dir := strings.ToUpper(q.OrderDir)
		switch dir {
		case "":
			dir = "ASC"
		case "ASC", "DESC":
		default:
			return nil, errs.New(errs.EInvalid, op, "order direction must be ASC or DESC")
		}
		b = b.OrderBy(q.OrderBy + " " + dir)
	}

	rows := []T{}
	if err := t.store.selectRows(ctx, op, &rows, b); err != nil {
		return nil, err
	}
	return rows, nil
}

// assignments validates an update set and stamps it. An empty effective set
// is EInvalid.
func (t *Table[T]) assignments(op string, fields Fields) (map[string]any, error) {
	values, err := fields.normalize(op, t.schema)
	if err != nil {
		return nil, err
	}
	for col := range values {
		if t.schema.managed(col) {
			return nil, errs.New(errs.EInvalid, op, "column %q cannot be updated", col)
		}
	}
	if len(values) == 0 {
		return nil, errs.New(errs.EInvalid, op, "no fields to update")
	}
	t.stamp(values, t.store.Now(), false)
	return values, nil
}

// Update changes only the supplied fields and returns the re-read row.
func (t *Table[T]) Update(ctx context.Context, id string, fields Fields) (*T, error) {
	op := t.op("Update")
	values, err := t.assignments(op, fields)
	if err != nil {
		return nil, err
	}

	n, err := t.store.exec(ctx, op, t.store.sb.Update(t.schema.Name).SetMap(values).Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errs.New(errs.ENotFound, op, "%s record %s not found", t.schema.Name, id)
	}
	return t.GetByID(ctx, id)
}

// UpdateByField applies fields to every row whose field equals value and
// returns those rows re-read.
func (t *Table[T]) UpdateByField(ctx context.Context, field string, value any, fields Fields) ([]T, error) {
	op := t.op("UpdateByField")
	where, err := Fields{field: value}.normalize(op, t.schema)
	if err != nil {
		return nil, err
	}
	if len(where) == 0 {
		return nil, errs.New(errs.EInvalid, op, "match value for %q is required", field)
	}
	values, err := t.assignments(op, fields)
	if err != nil {
		return nil, err
	}

	if _, err := t.store.exec(ctx, op, t.store.sb.Update(t.schema.Name).SetMap(values).Where(sq.Eq(where))); err != nil {
		return nil, err
	}
	return t.GetByField(ctx, field, value)
}

// Delete reports whether a row was removed. Deleting twice is not an error.
func (t *Table[T]) Delete(ctx context.Context, id string) (bool, error) {
	n, err := t.store.exec(ctx, t.op("Delete"), t.store.sb.Delete(t.schema.Name).Where(sq.Eq{"id": id}))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of rows matching filters.
func (t *Table[T]) Count(ctx context.Context, filters Fields) (int, error) {
	return t.store.Count(ctx, t.schema, filters)
}

// CountSince counts rows whose time column is at or after since.
func (t *Table[T]) CountSince(ctx context.Context, column string, since time.Time) (int, error) {
	op := t.op("CountSince")
	if !t.schema.Has(column) {
		return 0, errs.New(errs.EInvalid, op, "unknown column %q for %s", column, t.schema.Name)
	}
	var n int
	q := t.store.sb.Select("COUNT(*)").From(t.schema.Name).Where(sq.GtOrEq{column: since.UTC()})
	if err := t.store.get(ctx, op, &n, q); err != nil {
		return 0, err
	}
	return n, nil
}

// Sum totals an integer column over rows matching filters.
func (t *Table[T]) Sum(ctx context.Context, column string, filters Fields) (int64, error) {
	op := t.op("Sum")
	if !t.schema.Has(column) {
		return 0, errs.New(errs.EInvalid, op, "unknown column %q for %s", column, t.schema.Name)
	}
	where, err := filters.normalize(op, t.schema)
	if err != nil {
		return 0, err
	}

	q := t.store.sb.Select("COALESCE(SUM(" + column + "), 0)").From(t.schema.Name)
	if len(where) > 0 {
		q = q.Where(sq.Eq(where))
	}
	var total int64
	if err := t.store.get(ctx, op, &total, q); err != nil {
		return 0, err
	}
	return total, nil
}

type groupRow struct {
	Key   sql.NullString `db:"k"`
	Value int64          `db:"v"`
}

func (t *Table[T]) group(ctx context.Context, op, column, agg string) (map[string]int64, error) {
	if !t.schema.Has(column) {
		return nil, errs.New(errs.EInvalid, op, "unknown column %q for %s", column, t.schema.Name)
	}
	q := t.store.sb.Select(column+" AS k", agg+" AS v").From(t.schema.Name).GroupBy(column)

	var rows []groupRow
	if err := t.store.selectRows(ctx, op, &rows, q); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key.String] += r.Value
	}
	return out, nil
}

// GroupCount counts rows per distinct value of column.
func (t *Table[T]) GroupCount(ctx context.Context, column string) (map[string]int, error) {
	sums, err := t.group(ctx, t.op("GroupCount"), column, "COUNT(*)")
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(sums))
	for k, v := range sums {
		out[k] = int(v)
	}
	return out, nil
}

// GroupSum totals sumColumn per distinct value of groupColumn.
func (t *Table[T]) GroupSum(ctx context.Context, groupColumn, sumColumn string) (map[string]int64, error) {
	op := t.op("GroupSum")
	if !t.schema.Has(sumColumn) {
		return nil, errs.New(errs.EInvalid, op, "unknown column %q for %s", sumColumn, t.schema.Name)
	}
	return t.group(ctx, op, groupColumn, "COALESCE(SUM("+sumColumn+"), 0)")
}

// AddInt adds delta to an integer column in one statement, refusing any
// result below floor:
//
//	UPDATE t SET col = col + ? WHERE id = ? AND col + ? >= ?
//
// A refused update is EInvalid; a missing row is ENotFound.
func (t *Table[T]) AddInt(ctx context.Context, id, column string, delta, floor int64) (*T, error) {
	op := t.op("AddInt")
	if !t.schema.Has(column) || t.schema.managed(column) {
		return nil, errs.New(errs.EInvalid, op, "column %q cannot be adjusted", column)
	}

	values := map[string]any{column: sq.Expr(column+" + ?", delta)}
	t.stamp(values, t.store.Now(), false)

	q := t.store.sb.Update(t.schema.Name).
		SetMap(values).
		Where(sq.Eq{"id": id}).
		Where(sq.Expr(column+" + ? >= ?", delta, floor))

	n, err := t.store.exec(ctx, op, q)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := t.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, errs.New(errs.EInvalid, op, "%s would drop below %d", column, floor)
	}
	return t.GetByID(ctx, id)
}

// UpdateIf applies fields only while every guard column still holds its
// guard value. ok=false means the guard no longer matched or the row is
// gone; callers re-read and decide.
func (t *Table[T]) UpdateIf(ctx context.Context, id string, guard, fields Fields) (row *T, ok bool, err error) {
	op := t.op("UpdateIf")
	where, err := guard.normalize(op, t.schema)
	if err != nil {
		return nil, false, err
	}
	if len(where) == 0 {
		return nil, false, errs.New(errs.EInvalid, op, "guard is required")
	}
	values, err := t.assignments(op, fields)
	if err != nil {
		return nil, false, err
	}
	where["id"] = id

	n, err := t.store.exec(ctx, op, t.store.sb.Update(t.schema.Name).SetMap(values).Where(sq.Eq(where)))
	if err != nil {
		return nil, false, err
	}
	if n == 0 {
		return nil, false, nil
	}
	row, err = t.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// CompareAndSwap sets column to next only while it still holds prev.
// It reports false when another writer got there first.
func (t *Table[T]) CompareAndSwap(ctx context.Context, id, column string, prev, next any) (bool, error) {
	if _, ok, _ := driverValue(prev); !ok {
		return false, errs.New(errs.EInvalid, t.op("CompareAndSwap"), "previous value for %q is required", column)
	}
	_, ok, err := t.UpdateIf(ctx, id, Fields{column: prev}, Fields{column: next})
	return ok, err
}

// Count returns the number of rows in schema's table matching filters.
func (s *Store) Count(ctx context.Context, schema Schema, filters Fields) (int, error) {
	op := "store." + schema.Name + ".Count"
	where, err := filters.normalize(op, schema)
	if err != nil {
		return 0, err
	}

	q := s.sb.Select("COUNT(*)").From(schema.Name)
	if len(where) > 0 {
		q = q.Where(sq.Eq(where))
	}
	var n int
	if err := s.get(ctx, op, &n, q); err != nil {
		return 0, err
	}
	return n, nil
}
