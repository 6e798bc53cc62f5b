package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/votacion-api/internal/config"
)

func TestValidateStorageType(t *testing.T) {
	for _, name := range []string{"postgres", "mongo", "memory"} {
		st, err := ValidateStorageType(name)
		require.NoError(t, err)
		assert.Equal(t, StorageType(name), st)
	}

	_, err := ValidateStorageType("sqlite")
	assert.Error(t, err)
}

func TestCreateMemoryContainer(t *testing.T) {
	c, err := NewFactory(StorageTypeMemory).CreateContainer(context.Background(), &config.Config{})
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, c.Health(context.Background()))
	assert.Equal(t, "memory", c.Info()["type"])
}

func TestCreateUnknownContainer(t *testing.T) {
	_, err := NewFactory("nope").CreateContainer(context.Background(), &config.Config{})
	assert.Error(t, err)
}
