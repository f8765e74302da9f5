package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func createCorporate(t *testing.T, s *Storages, name, taxNumber string) models.Corporate {
	t.Helper()
	c, err := s.Corporates.Create(context.Background(), models.Corporate{
		Name:      name,
		TaxNumber: taxNumber,
		IsActive:  true,
	})
	require.NoError(t, err)
	return c
}

func newMockRepo(t *testing.T, dialect Dialect, classifier ErrorClassificator) (*Repository[models.Corporate], sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := &DB{DB: sqlDB, dialect: dialect, errorClassificator: classifier, logger: logger.Nop()}
	repo, err := NewRepository[models.Corporate](db, logger.Nop())
	require.NoError(t, err)
	return repo, mock
}

// ── MetaOf ────────────────────────────────────────────────────────────────────

func TestMetaOf_Corporate(t *testing.T) {
	meta, err := MetaOf[models.Corporate]()
	require.NoError(t, err)

	assert.Equal(t, "corporates", meta.Table)
	assert.Equal(t, "Corporate", meta.VerboseName)
	assert.Equal(t, []string{
		"id", "name", "tax_number", "email", "website", "logo",
		"description", "is_active", "created_at", "updated_at",
	}, meta.Columns())

	id, ok := meta.Field("id")
	require.True(t, ok)
	assert.True(t, id.Auto)

	logo, ok := meta.Field("logo")
	require.True(t, ok)
	assert.Equal(t, "Logo", logo.Name)

	again, err := MetaOf[models.Corporate]()
	require.NoError(t, err)
	assert.Same(t, meta, again)
}

type noPK struct {
	Name string `db:"name"`
}

func (noPK) TableName() string   { return "no_pk" }
func (noPK) VerboseName() string { return "No PK" }

func TestMetaOf_RequiresPrimaryKey(t *testing.T) {
	_, err := MetaOf[noPK]()
	assert.ErrorIs(t, err, ErrInvalidModel)
}

// ── Create / Update / Delete on SQLite ────────────────────────────────────────

func TestRepository_Create(t *testing.T) {
	s := newTestStorages(t)

	created := createCorporate(t, s, "Acme", "1234567890")

	assert.NotZero(t, created.ID)
	assert.Equal(t, "Acme", created.Name)
	assert.True(t, created.IsActive)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
	assert.Equal(t, created.ID, s.Corporates.PK(created))
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	s := newTestStorages(t)
	createCorporate(t, s, "Acme", "1234567890")

	_, err := s.Corporates.Create(context.Background(), models.Corporate{Name: "Other", TaxNumber: "1234567890"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRepository_Create_ForeignKeyViolation(t *testing.T) {
	s := newTestStorages(t)

	_, err := s.Branches.Create(context.Background(), models.Branch{CorporateID: 999, Name: "HQ", City: "Ankara"})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestRepository_Update(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()
	created := createCorporate(t, s, "Acme", "1234567890")

	created.Name = "Acme Holding"
	created.Logo = models.FieldFile{Name: "corporates/logo/a.png"}
	updated, err := s.Corporates.Update(ctx, created)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Acme Holding", updated.Name)
	assert.Equal(t, "corporates/logo/a.png", updated.Logo.Name)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestRepository_Update_NotFound(t *testing.T) {
	s := newTestStorages(t)

	_, err := s.Corporates.Update(context.Background(), models.Corporate{ID: 42, Name: "Ghost", TaxNumber: "1111111111"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Delete(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()
	created := createCorporate(t, s, "Acme", "1234567890")

	require.NoError(t, s.Corporates.Delete(ctx, created))
	assert.ErrorIs(t, s.Corporates.Delete(ctx, created), ErrNotFound)

	count, err := s.Corporates.Objects().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepository_NullableTimestamp(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	user, err := s.Users.Create(ctx, models.User{Email: "a@b.c", Password: "hash", IsActive: true})
	require.NoError(t, err)
	assert.Nil(t, user.LastLogin)
	assert.False(t, user.DateJoined.IsZero())

	now := time.Now().UTC()
	user.LastLogin = &now
	user, err = s.Users.Update(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)
	assert.WithinDuration(t, now, *user.LastLogin, time.Second)
}

// ── error translation through sqlmock ─────────────────────────────────────────

func TestRepository_Create_PostgresUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t, DialectPostgres, NewPostgresErrorClassifier())

	mock.ExpectQuery(`INSERT INTO corporates \(name,tax_number,email,website,logo,description,is_active,created_at,updated_at\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8,\$9\) RETURNING id`).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.Create(context.Background(), models.Corporate{Name: "Acme", TaxNumber: "1234567890"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_RereadsRow(t *testing.T) {
	repo, mock := newMockRepo(t, DialectPostgres, NewPostgresErrorClassifier())
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO corporates`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery(`SELECT id, name, tax_number, email, website, logo, description, is_active, created_at, updated_at FROM corporates WHERE \(id = \$1\) LIMIT 2`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(repo.Meta().Columns()).
			AddRow(int64(5), "Acme", "1234567890", "", "", "", "", true, now, now))

	created, err := repo.Create(context.Background(), models.Corporate{Name: "Acme", TaxNumber: "1234567890"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, "Acme", created.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_ForeignKeyViolation(t *testing.T) {
	repo, mock := newMockRepo(t, DialectPostgres, NewPostgresErrorClassifier())

	mock.ExpectExec(`UPDATE corporates SET`).
		WillReturnError(pgError(pgerrcode.ForeignKeyViolation))

	_, err := repo.Update(context.Background(), models.Corporate{ID: 1})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestQuerySet_RetriesTransientErrors(t *testing.T) {
	repo, mock := newMockRepo(t, DialectPostgres, NewPostgresErrorClassifier())

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM corporates`).
		WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM corporates`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.Objects().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerySet_DoesNotRetryPermanentErrors(t *testing.T) {
	repo, mock := newMockRepo(t, DialectPostgres, NewPostgresErrorClassifier())

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM corporates`).
		WillReturnError(pgError(pgerrcode.UndefinedTable))

	_, err := repo.Objects().Count(context.Background())
	assert.ErrorIs(t, err, ErrExecutingQuery)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerySet_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t, DialectPostgres, NewPostgresErrorClassifier())

	mock.ExpectQuery(`SELECT`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("not-a-number"))

	_, err := repo.Objects().All(context.Background())
	assert.True(t, errors.Is(err, ErrScanningRow), "got %v", err)
}
