package users

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	ctx := context.Background()
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash(ctx, "secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"))

	ok, err := h.Verify(ctx, hash, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(ctx, hash, "secret2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_SaltedOutput(t *testing.T) {
	ctx := context.Background()
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash(ctx, "same")
	require.NoError(t, err)
	b, err := h.Hash(ctx, "same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_VerifiesOtherCosts(t *testing.T) {
	ctx := context.Background()
	hash, err := NewBcryptHasher(bcrypt.MinCost).Hash(ctx, "pw")
	require.NoError(t, err)

	ok, err := NewBcryptHasher(12).Verify(ctx, hash, "pw")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(1).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
}

func TestBcryptHasher_TooLong(t *testing.T) {
	ctx := context.Background()
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(ctx, strings.Repeat("x", 73))
	assert.ErrorIs(t, err, common.ErrorInvalidInput)
	assert.ErrorIs(t, err, common.ErrorPasswordTooLong)

	exact := strings.Repeat("a", 72)
	hash, err := h.Hash(ctx, exact)
	require.NoError(t, err)

	ok, err := h.Verify(ctx, hash, exact)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(ctx, hash, exact+"WRONG-SUFFIX")
	require.NoError(t, err)
	assert.False(t, ok, "bytes past 72 must not be ignored")
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	ok, err := NewBcryptHasher(bcrypt.MinCost).Verify(context.Background(), "plaintext", "pw")
	assert.False(t, ok)
	assert.ErrorIs(t, err, common.ErrorMalformedRecord)
}

func TestBcryptHasher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.Canceled)

	ok, err := h.Verify(ctx, "$2a$04$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva", "pw")
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}
