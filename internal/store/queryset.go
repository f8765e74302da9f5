package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/models"
	sq "github.com/Masterminds/squirrel"
)

// QuerySet is a lazy, immutable query over a model table. Filter, Exclude
// and OrderBy return new query sets; nothing touches the database until
// All, Get, First, Count, Exists or Delete is called.
//
// An invalid lookup or ordering is remembered and returned by the first
// evaluating call.
type QuerySet[T models.Model] struct {
	repo  *Repository[T]
	where []sq.Sqlizer
	order []string
	err   error
}

// Filter narrows the query set to rows matching every lookup.
func (qs QuerySet[T]) Filter(lookups Lookups) QuerySet[T] {
	if qs.err != nil || len(lookups) == 0 {
		return qs
	}

	cond, err := lookups.where(qs.repo.meta)
	if err != nil {
		qs.err = err
		return qs
	}

	qs.where = append(qs.where[:len(qs.where):len(qs.where)], cond)
	return qs
}

// Exclude removes rows matching all of the lookups together.
func (qs QuerySet[T]) Exclude(lookups Lookups) QuerySet[T] {
	if qs.err != nil || len(lookups) == 0 {
		return qs
	}

	cond, err := lookups.excludeWhere(qs.repo.meta)
	if err != nil {
		qs.err = err
		return qs
	}

	qs.where = append(qs.where[:len(qs.where):len(qs.where)], notExpr{cond: cond})
	return qs
}

// OrderBy replaces the ordering. A leading "-" sorts descending.
func (qs QuerySet[T]) OrderBy(fields ...string) QuerySet[T] {
	if qs.err != nil {
		return qs
	}

	order := make([]string, 0, len(fields))
	for _, name := range fields {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		direction := " ASC"
		if strings.HasPrefix(name, "-") {
			direction = " DESC"
			name = name[1:]
		}

		f, ok := qs.repo.meta.Field(name)
		if !ok || f.JSONName == "" {
			qs.err = fmt.Errorf("%w: cannot order by %q", ErrInvalidLookup, name)
			return qs
		}
		order = append(order, f.Column+direction)
	}

	qs.order = order
	return qs
}

// Err returns the error recorded while building the query set, if any.
func (qs QuerySet[T]) Err() error {
	return qs.err
}

// All returns every matching row.
func (qs QuerySet[T]) All(ctx context.Context) ([]T, error) {
	return qs.fetch(ctx, 0)
}

// Get returns the single matching row. No match yields [ErrNotFound], more
// than one yields [ErrMultipleObjectsReturned].
func (qs QuerySet[T]) Get(ctx context.Context) (T, error) {
	var zero T

	items, err := qs.fetch(ctx, 2)
	if err != nil {
		return zero, err
	}

	switch len(items) {
	case 0:
		return zero, ErrNotFound
	case 1:
		return items[0], nil
	}
	return zero, ErrMultipleObjectsReturned
}

// First returns the first row in the current ordering, or [ErrNotFound].
func (qs QuerySet[T]) First(ctx context.Context) (T, error) {
	var zero T

	if len(qs.order) == 0 {
		qs = qs.OrderBy(pkColumn)
	}
	items, err := qs.fetch(ctx, 1)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, ErrNotFound
	}
	return items[0], nil
}

// Count returns the number of matching rows.
func (qs QuerySet[T]) Count(ctx context.Context) (int64, error) {
	if qs.err != nil {
		return 0, qs.err
	}

	log := logger.FromContext(ctx)
	db := qs.repo.db

	query, args, err := qs.apply(db.builder().Select("COUNT(*)").From(qs.repo.meta.Table)).ToSql()
	if err != nil {
		log.Err(err).Str("func", "QuerySet.Count").Msg("error building count query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	err = db.withRetry(ctx, func() error {
		return db.QueryRowContext(ctx, query, args...).Scan(&count)
	})
	if err != nil {
		log.Err(err).Str("func", "QuerySet.Count").Str("table", qs.repo.meta.Table).Msg("error executing count query")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

// Exists reports whether at least one row matches.
func (qs QuerySet[T]) Exists(ctx context.Context) (bool, error) {
	items, err := qs.fetch(ctx, 1)
	if err != nil {
		return false, err
	}
	return len(items) > 0, nil
}

// Delete removes every matching row and returns how many were deleted.
func (qs QuerySet[T]) Delete(ctx context.Context) (int64, error) {
	if qs.err != nil {
		return 0, qs.err
	}

	log := logger.FromContext(ctx)
	db := qs.repo.db

	builder := db.builder().Delete(qs.repo.meta.Table)
	for _, cond := range qs.where {
		builder = builder.Where(cond)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "QuerySet.Delete").Msg("error building delete query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "QuerySet.Delete").Str("table", qs.repo.meta.Table).Msg("error executing delete")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, db.translate(err))
	}

	return result.RowsAffected()
}

func (qs QuerySet[T]) apply(builder sq.SelectBuilder) sq.SelectBuilder {
	for _, cond := range qs.where {
		builder = builder.Where(cond)
	}
	return builder
}

func (qs QuerySet[T]) fetch(ctx context.Context, limit uint64) ([]T, error) {
	if qs.err != nil {
		return nil, qs.err
	}

	log := logger.FromContext(ctx)
	db := qs.repo.db
	meta := qs.repo.meta

	builder := qs.apply(db.builder().Select(meta.Columns()...).From(meta.Table))
	if len(qs.order) > 0 {
		builder = builder.OrderBy(qs.order...)
	}
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "QuerySet.fetch").Msg("error building select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var items []T
	err = db.withRetry(ctx, func() error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		items, err = scanRows[T](rows, meta)
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "QuerySet.fetch").Str("table", meta.Table).Msg("error fetching rows")
		if errors.Is(err, ErrScanningRow) || errors.Is(err, ErrScanningRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return items, nil
}

func scanRows[T models.Model](rows *sql.Rows, meta *Meta) ([]T, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	items := make([]T, 0)
	for rows.Next() {
		var item T
		targets := meta.scanTargets(reflect.ValueOf(&item).Elem(), columns)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}
