// Package postgres stores farm records directly in Postgres. Every statement
// filters on user_id.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/postgres/migrations"
)

// Querier is satisfied by *pgxpool.Pool and by pgxmock pools.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Store implements every record store the services need.
type Store struct {
	db     Querier
	logger *zap.Logger
}

// New wraps db.
func New(db Querier, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Connect opens a pool and checks it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// queryRows runs a select built with squirrel and scans every row.
func queryRows[T any](ctx context.Context, s *Store, q squirrel.SelectBuilder, scan func(pgx.CollectableRow) (T, error)) ([]T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, s.mapError(err)
	}

	out, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, s.mapError(err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// queryOne runs a statement returning a single row.
func queryOne[T any](ctx context.Context, s *Store, q squirrel.Sqlizer, scan func(pgx.Row) (T, error)) (T, error) {
	var zero T
	query, args, err := q.ToSql()
	if err != nil {
		return zero, fmt.Errorf("build query: %w", err)
	}

	v, err := scan(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return zero, s.mapError(err)
	}
	return v, nil
}

// writeOne runs an owner-scoped UPDATE ... RETURNING. No row means the
// caller does not own the target.
func writeOne[T any](ctx context.Context, s *Store, q squirrel.Sqlizer, scan func(pgx.Row) (T, error)) (T, error) {
	v, err := queryOne(ctx, s, q, scan)
	if errors.Is(err, models.ErrNotFound) {
		var zero T
		return zero, fmt.Errorf("no owned row matched: %w", models.ErrForbidden)
	}
	return v, err
}

// deleteOwned runs an owner-scoped DELETE.
func (s *Store) deleteOwned(ctx context.Context, q squirrel.DeleteBuilder) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no owned row matched: %w", models.ErrForbidden)
	}
	return nil
}

func (s *Store) mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", pgErr.Message, models.ErrConflict)
		case "23502", "23503", "23514", "22P02", "22007", "22008":
			field := pgErr.ColumnName
			if field == "" {
				field = pgErr.ConstraintName
			}
			return models.NewValidationError(field, pgErr.Message)
		}
	}

	s.logger.Error("postgres query failed", zap.Error(err))
	return fmt.Errorf("postgres: %w", errors.Join(models.ErrBackend, err))
}
