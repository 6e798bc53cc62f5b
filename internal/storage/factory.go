package storage

import (
	"context"
	"fmt"

	"github.com/gravadigital/votacion-api/internal/config"
	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
	"github.com/gravadigital/votacion-api/internal/storage/memory"
	"github.com/gravadigital/votacion-api/internal/storage/mongo"
	"github.com/gravadigital/votacion-api/internal/storage/postgres"
)

// StorageType represents the type of storage backend
type StorageType string

const (
	// StorageTypePostgres represents PostgreSQL storage
	StorageTypePostgres StorageType = "postgres"
	// StorageTypeMongo represents MongoDB storage
	StorageTypeMongo StorageType = "mongo"
	// StorageTypeMemory keeps everything in process
	StorageTypeMemory StorageType = "memory"
)

// Container is what every backend provides to the services
type Container interface {
	Candidates() candidate.Repository
	Votes() vote.Repository
	Health(ctx context.Context) error
	Info() map[string]any
	Close() error
}

// Factory provides a factory pattern for creating storage containers
type Factory struct {
	storageType StorageType
}

// NewFactory creates a new storage factory
func NewFactory(storageType StorageType) *Factory {
	return &Factory{
		storageType: storageType,
	}
}

// CreateContainer creates a storage container based on the configured type
func (f *Factory) CreateContainer(ctx context.Context, cfg *config.Config) (Container, error) {
	switch f.storageType {
	case StorageTypePostgres:
		return postgres.NewContainer(ctx, cfg)
	case StorageTypeMongo:
		return mongo.NewContainer(ctx, cfg)
	case StorageTypeMemory:
		return memory.NewContainer(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", f.storageType)
	}
}

// GetSupportedTypes returns a list of supported storage types
func GetSupportedTypes() []StorageType {
	return []StorageType{
		StorageTypePostgres,
		StorageTypeMongo,
		StorageTypeMemory,
	}
}

// ValidateStorageType validates if a storage type is supported
func ValidateStorageType(storageType string) (StorageType, error) {
	st := StorageType(storageType)

	for _, supported := range GetSupportedTypes() {
		if st == supported {
			return st, nil
		}
	}

	return "", fmt.Errorf("unsupported storage type: %s. Supported types: %v", storageType, GetSupportedTypes())
}

// DefaultFactory returns a factory configured with the default storage type
func DefaultFactory() *Factory {
	return NewFactory(StorageTypePostgres)
}
