package repositories

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/yigit/curriculum/internal/config"
	"github.com/yigit/curriculum/internal/db"
	"github.com/yigit/curriculum/internal/pkg/filestorage"
)

// Repositories holds all the repository instances
type Repositories struct {
	Catalog CatalogStore
}

// NewRepositories picks the catalog store for the configured driver.
// database may be nil unless the postgres driver is selected.
func NewRepositories(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		if database == nil {
			return nil, fmt.Errorf("postgres storage selected but no database connection available")
		}
		return &Repositories{
			Catalog: NewPostgresCatalogRepository(database.Pool, database, lgr),
		}, nil
	default:
		storage, err := filestorage.NewLocalStorage(filepath.Dir(cfg.Storage.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		return &Repositories{
			Catalog: NewFileCatalogRepository(storage, filepath.Base(cfg.Storage.Path), lgr),
		}, nil
	}
}
