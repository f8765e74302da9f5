package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/models"
)

// ModelRepository is the persistence contract the mixins depend on.
type ModelRepository[T models.Model] interface {
	// Objects returns a query set over every row of the table.
	Objects() QuerySet[T]
	// Create inserts instance and returns the stored row.
	Create(ctx context.Context, instance T) (T, error)
	// Update writes every non-generated column of instance and returns the
	// stored row.
	Update(ctx context.Context, instance T) (T, error)
	// Delete removes the row of instance.
	Delete(ctx context.Context, instance T) error
	// Meta returns the table mapping of T.
	Meta() *Meta
}

// Repository is the generic table gateway for a model type. Columns are
// taken from `db` tags; see [models.Model].
type Repository[T models.Model] struct {
	db     *DB
	meta   *Meta
	logger *logger.Logger
}

// NewRepository builds a repository for T on db.
func NewRepository[T models.Model](db *DB, log *logger.Logger) (*Repository[T], error) {
	meta, err := MetaOf[T]()
	if err != nil {
		return nil, err
	}

	log.Debug().Str("table", meta.Table).Msg("creating repository")
	return &Repository[T]{
		db:     db,
		meta:   meta,
		logger: log,
	}, nil
}

// Meta returns the table mapping of T.
func (r *Repository[T]) Meta() *Meta {
	return r.meta
}

// Objects returns a query set over every row of the table.
func (r *Repository[T]) Objects() QuerySet[T] {
	return QuerySet[T]{repo: r}
}

// PK returns the primary key of instance.
func (r *Repository[T]) PK(instance T) int64 {
	return r.meta.pk(reflect.ValueOf(instance))
}

// Create inserts instance and returns the row as stored, including
// database-generated columns.
//
// Unique violations yield [ErrAlreadyExists], foreign key and not-null
// violations yield [ErrInvalidReference].
func (r *Repository[T]) Create(ctx context.Context, instance T) (T, error) {
	var zero T
	log := logger.FromContext(ctx)

	if hook, ok := any(&instance).(models.BeforeSaver); ok {
		hook.BeforeSave(true)
	}

	columns, values := r.meta.writable(reflect.ValueOf(instance))
	query, args, err := r.db.builder().
		Insert(r.meta.Table).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING " + pkColumn).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "Repository.Create").Msg("error building insert query")
		return zero, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var id int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		log.Err(err).Str("func", "Repository.Create").Str("table", r.meta.Table).Msg("error inserting row")
		return zero, fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.translate(err))
	}

	return r.byID(ctx, id)
}

// Update writes every non-generated column of instance to its row and
// returns the row as stored. A missing row yields [ErrNotFound].
func (r *Repository[T]) Update(ctx context.Context, instance T) (T, error) {
	var zero T
	log := logger.FromContext(ctx)

	if hook, ok := any(&instance).(models.BeforeSaver); ok {
		hook.BeforeSave(false)
	}

	v := reflect.ValueOf(instance)
	id := r.meta.pk(v)
	columns, values := r.meta.writable(v)

	builder := r.db.builder().Update(r.meta.Table)
	for i, column := range columns {
		builder = builder.Set(column, values[i])
	}

	query, args, err := builder.Where(pkColumn+" = ?", id).ToSql()
	if err != nil {
		log.Err(err).Str("func", "Repository.Update").Msg("error building update query")
		return zero, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "Repository.Update").Str("table", r.meta.Table).Msg("error updating row")
		return zero, fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.translate(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return zero, ErrNotFound
	}

	return r.byID(ctx, id)
}

// Delete removes the row of instance. A missing row yields [ErrNotFound].
func (r *Repository[T]) Delete(ctx context.Context, instance T) error {
	deleted, err := r.Objects().Filter(Lookups{pkColumn: r.PK(instance)}).Delete(ctx)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository[T]) byID(ctx context.Context, id int64) (T, error) {
	instance, err := r.Objects().Filter(Lookups{pkColumn: id}).Get(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return instance, fmt.Errorf("error re-reading %s %d: %w", r.meta.Table, id, err)
	}
	return instance, err
}
