package repositories

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/curriculum/internal/app/models"
	"github.com/yigit/curriculum/internal/pkg/apperrors"
	"github.com/yigit/curriculum/internal/pkg/filestorage"
)

// FileCatalogRepository keeps the catalog in a single JSON file.
type FileCatalogRepository struct {
	storage filestorage.FileStorage
	name    string
	logger  zerolog.Logger
}

var _ CatalogStore = (*FileCatalogRepository)(nil)

// NewFileCatalogRepository creates a repository writing name inside storage.
func NewFileCatalogRepository(storage filestorage.FileStorage, name string, lgr zerolog.Logger) *FileCatalogRepository {
	return &FileCatalogRepository{
		storage: storage,
		name:    name,
		logger:  lgr.With().Str("component", "catalog_file").Str("path", storage.GetFullPath(name)).Logger(),
	}
}

// Exists reports whether the catalog file is present.
func (r *FileCatalogRepository) Exists(_ context.Context) (bool, error) {
	ok, err := r.storage.Exists(r.name)
	if err != nil {
		return false, apperrors.NewStoreError(apperrors.ErrStoreCorrupt, "catalog not readable", err)
	}
	return ok, nil
}

// Load reads and decodes the catalog file.
func (r *FileCatalogRepository) Load(_ context.Context) (*models.Program, error) {
	data, err := r.storage.ReadFile(r.name)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to read catalog file")
		return nil, apperrors.NewStoreError(apperrors.ErrStoreCorrupt, "catalog not readable", err)
	}

	program, err := UnmarshalCatalog(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("Catalog file is corrupt")
		return nil, err
	}

	r.logger.Debug().Int("courses", len(program.Courses)).Msg("Catalog loaded")
	return program, nil
}

// Save writes the catalog atomically.
func (r *FileCatalogRepository) Save(_ context.Context, program *models.Program) error {
	data, err := MarshalCatalog(program)
	if err != nil {
		return apperrors.NewStoreError(apperrors.ErrStoreWrite, "failed to encode catalog", err)
	}

	if _, err := r.storage.WriteFileAtomic(r.name, data, 0o644); err != nil {
		r.logger.Error().Err(err).Msg("Failed to write catalog file")
		return apperrors.NewStoreError(apperrors.ErrStoreWrite, "failed to save catalog", err)
	}

	r.logger.Debug().Int("courses", len(program.Courses)).Msg("Catalog saved")
	return nil
}
