package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/curriculum/internal/app/models"
	"github.com/yigit/curriculum/internal/db"
	"github.com/yigit/curriculum/internal/pkg/apperrors"
	"github.com/yigit/curriculum/internal/pkg/dberrors"
)

const (
	catalogTable = "curriculum_catalog"
	// catalogRowID is the key of the single catalog row.
	catalogRowID = 1
)

// RowQuerier runs a query returning at most one row. *pgxpool.Pool satisfies it.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// TxRunner runs fn inside a database transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// PostgresCatalogRepository stores the catalog document in a jsonb column.
type PostgresCatalogRepository struct {
	db     RowQuerier
	tx     TxRunner
	sb     squirrel.StatementBuilderType
	logger zerolog.Logger
}

var _ CatalogStore = (*PostgresCatalogRepository)(nil)

// NewPostgresCatalogRepository creates a new PostgresCatalogRepository
func NewPostgresCatalogRepository(db RowQuerier, tx TxRunner, lgr zerolog.Logger) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{
		db:     db,
		tx:     tx,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger: lgr.With().Str("component", "catalog_postgres").Logger(),
	}
}

// Exists reports whether the catalog row is present.
func (r *PostgresCatalogRepository) Exists(ctx context.Context) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From(catalogTable).
		Where(squirrel.Eq{"id": catalogRowID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, apperrors.NewStoreError(apperrors.ErrStoreCorrupt, "failed to build query", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		r.logger.Error().Err(err).Msg("Error checking catalog row")
		return false, apperrors.NewStoreError(apperrors.ErrStoreCorrupt, readFailure(err), err)
	}
	return exists, nil
}

// Load reads the catalog document.
func (r *PostgresCatalogRepository) Load(ctx context.Context) (*models.Program, error) {
	sql, args, err := r.sb.Select("document").
		From(catalogTable).
		Where(squirrel.Eq{"id": catalogRowID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, apperrors.NewStoreError(apperrors.ErrStoreCorrupt, "failed to build query", err)
	}

	var document []byte
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&document); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStoreError(apperrors.ErrStoreCorrupt, "catalog not initialized", err)
		}
		r.logger.Error().Err(err).Msg("Error loading catalog")
		return nil, apperrors.NewStoreError(apperrors.ErrStoreCorrupt, readFailure(err), err)
	}

	program, err := UnmarshalCatalog(document)
	if err != nil {
		r.logger.Error().Err(err).Msg("Stored catalog is corrupt")
		return nil, err
	}
	return program, nil
}

// Save upserts the catalog document inside a transaction.
func (r *PostgresCatalogRepository) Save(ctx context.Context, program *models.Program) error {
	document, err := MarshalCatalog(program)
	if err != nil {
		return apperrors.NewStoreError(apperrors.ErrStoreWrite, "failed to encode catalog", err)
	}

	sql, args, err := r.sb.Insert(catalogTable).
		Columns("id", "document", "updated_at").
		Values(catalogRowID, string(document), time.Now().UTC()).
		Suffix("ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return apperrors.NewStoreError(apperrors.ErrStoreWrite, "failed to build query", err)
	}

	err = r.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("Error saving catalog")
		msg := "failed to save catalog"
		if dberrors.IsUnavailable(err) {
			msg = "database unavailable"
		}
		return apperrors.NewStoreError(apperrors.ErrStoreWrite, msg, err)
	}
	return nil
}

func readFailure(err error) string {
	switch {
	case dberrors.IsUnavailable(err):
		return "database unavailable"
	case dberrors.IsUndefinedTable(err):
		return "catalog table missing"
	default:
		return "catalog not readable"
	}
}
