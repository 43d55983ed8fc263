package storage

import (
	"context"
	"testing"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "bucket", "report.txt", []byte("Hello"), "text/plain"))

	data, err := store.Get(ctx, "bucket", "report.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello"), data)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "bucket", "missing.txt")

	assert.Error(t, err)
	assert.Equal(t, model.ErrKindSourceNotFound, model.KindOf(err))
	assert.False(t, model.IsTransient(err))
}

func TestMemoryStore_PutOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "bucket", "report.mp3", []byte("first"), "audio/mpeg"))
	require.NoError(t, store.Put(ctx, "bucket", "report.mp3", []byte("second"), "audio/mpeg"))

	data, err := store.Get(ctx, "bucket", "report.mp3")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_BucketsAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "source", "report.txt", []byte("text"), "text/plain"))

	_, err := store.Get(ctx, "destination", "report.txt")
	assert.Error(t, err)
}
