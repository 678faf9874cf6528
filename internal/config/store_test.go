package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/errors"
	"todo/internal/logging"
)

func TestStoreOpener(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.Dir = filepath.Join(t.TempDir(), "nested")
	open := StoreOpener(cfg, logging.Discard())
	ctx := context.Background()

	store, err := open(ctx)
	require.NoError(t, err)
	defer store.Close()

	record, err := store.Insert(ctx, "Test Task")
	require.NoError(t, err)

	records, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)

	_, err = open(ctx)
	assert.ErrorIs(t, err, errors.ErrStoreUnavailable, "one store per location")
}

func TestStoreOpener_Memory(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.Filename = MemoryDatabase
	open := StoreOpener(cfg, nil)

	first, err := open(context.Background())
	require.NoError(t, err)
	defer first.Close()

	second, err := open(context.Background())
	require.NoError(t, err, "in-memory stores are independent")
	defer second.Close()
}

func TestStoreOpener_CanceledContext(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.Filename = MemoryDatabase
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := StoreOpener(cfg, nil)(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
