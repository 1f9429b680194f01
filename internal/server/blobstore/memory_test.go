package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

func TestMemoryStore_WriteReadExists(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	ok, err := m.Exists(ctx, "users/alice.json")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.Read(ctx, "users/alice.json")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, m.Write(ctx, "users/alice.json", []byte(`{"a":1}`), "application/json"))

	ok, err = m.Exists(ctx, "users/alice.json")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := m.Read(ctx, "users/alice.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	ct, ok := m.ContentType("users/alice.json")
	assert.True(t, ok)
	assert.Equal(t, "application/json", ct)
}

func TestMemoryStore_WriteOverwrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.Write(ctx, "k", []byte("one"), "text/plain"))
	require.NoError(t, m.Write(ctx, "k", []byte("two"), "text/plain"))

	data, err := m.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestMemoryStore_Create(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.Create(ctx, "k", []byte("one"), "text/plain"))
	err := m.Create(ctx, "k", []byte("two"), "text/plain")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	data, err := m.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	src := []byte("abc")
	require.NoError(t, m.Write(ctx, "k", src, "text/plain"))
	src[0] = 'x'

	got, err := m.Read(ctx, "k")
	require.NoError(t, err)
	got[1] = 'y'

	again, err := m.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemoryStore()

	_, err := m.Exists(ctx, "k")
	assert.ErrorIs(t, err, common.ErrorStorageUnavailable)
	_, err = m.Read(ctx, "k")
	assert.ErrorIs(t, err, common.ErrorStorageUnavailable)
	assert.ErrorIs(t, m.Write(ctx, "k", nil, ""), common.ErrorStorageUnavailable)
	assert.ErrorIs(t, m.Create(ctx, "k", nil, ""), common.ErrorStorageUnavailable)
}
