package storage

import (
	"agenticv-server/internal/config"
	"agenticv-server/internal/logging"
)

// NewStore selects the storage implementation from explicit configuration:
// the Spaces client when credentials are present, the in-memory mock
// otherwise. Callers depend only on the Store interface.
func NewStore(cfg *config.Config) (Store, error) {
	logger := logging.GetGlobalLogger()

	if !cfg.StorageConfigured() {
		logger.Warn("Storage credentials absent, using in-memory mock store", map[string]interface{}{
			"bucket_name": cfg.Storage.BucketName,
		})
		return NewMockStore(), nil
	}

	return NewSpacesStore(cfg)
}
