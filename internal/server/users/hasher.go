package users

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Hasher is a one-way salted password hash. Verify reports (false, nil) on
// a mismatch and an error only when the stored hash cannot be used.
type Hasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, hash, password string) (bool, error)
}

// BcryptHasher hashes with bcrypt. The salt and cost are embedded in the
// hash, so Verify works across cost changes.
// maxPasswordLen is the longest input bcrypt hashes without truncation.
const maxPasswordLen = 72

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash rejects passwords longer than 72 bytes with an error matching both
// common.ErrorInvalidInput and common.ErrorPasswordTooLong.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if len(password) > maxPasswordLen {
		return "", fmt.Errorf("%w: %w", common.ErrorInvalidInput, common.ErrorPasswordTooLong)
	}
	hash, err := offload(ctx, func() ([]byte, error) {
		return bcrypt.GenerateFromPassword([]byte(password), h.cost)
	})
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify returns common.ErrorMalformedRecord when hash is not a bcrypt hash.
// Passwords longer than 72 bytes never match: bcrypt would compare only
// their prefix.
func (h *BcryptHasher) Verify(ctx context.Context, hash, password string) (bool, error) {
	if len(password) > maxPasswordLen {
		return false, nil
	}
	_, err := offload(ctx, func() (struct{}, error) {
		return struct{}{}, bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false, fmt.Errorf("verify password: %w", err)
	default:
		return false, fmt.Errorf("%w: %v", common.ErrorMalformedRecord, err)
	}
}

type result[T any] struct {
	v   T
	err error
}

// offload runs a CPU-bound fn on its own goroutine so the caller can give
// up when ctx is done. fn itself keeps running to completion.
func offload[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	ch := make(chan result[T], 1)
	go func() {
		v, err := fn()
		ch <- result[T]{v: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
