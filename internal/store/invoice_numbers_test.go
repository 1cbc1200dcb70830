package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgerpipe/ledgerpipe/pkg/database"
)

func newTestStore(t *testing.T) *InvoiceNumberStore {
	t.Helper()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewInvoiceNumberStore(db, zap.NewNop())
	require.NoError(t, store.Init(context.Background()))
	return store
}

func TestInvoiceNumberStore_RecordAndExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	existing, err := store.Existing(ctx)
	require.NoError(t, err)
	assert.Empty(t, existing)

	require.NoError(t, store.Record(ctx, "INV-1001"))
	require.NoError(t, store.Record(ctx, "INV-1002"))

	existing, err = store.Existing(ctx)
	require.NoError(t, err)
	assert.Len(t, existing, 2)
	assert.Contains(t, existing, "INV-1001")
	assert.Contains(t, existing, "INV-1002")
}

func TestInvoiceNumberStore_RecordIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, "INV-1001"))
	require.NoError(t, store.Record(ctx, "INV-1001"))

	existing, err := store.Existing(ctx)
	require.NoError(t, err)
	assert.Len(t, existing, 1)
}

func TestInvoiceNumberStore_CaseSensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, "INV-1001"))
	require.NoError(t, store.Record(ctx, "inv-1001"))

	existing, err := store.Existing(ctx)
	require.NoError(t, err)
	assert.Len(t, existing, 2, "numbers differing only in case are distinct")
}

func TestInvoiceNumberStore_InitIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Init(context.Background()))
}
