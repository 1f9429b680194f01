// Package common defines the sentinel errors shared by the storage, credential
// and HTTP layers of gophauth. Callers should use errors.Is to match these
// values; lower layers wrap them with fmt.Errorf("...: %w", err).
package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound           = errors.New("not found")
	ErrorAlreadyExists      = errors.New("already exists")
	ErrorStorageUnavailable = errors.New("storage unavailable")

	// Record errors.
	ErrorMalformedRecord = errors.New("malformed record")

	// Credential service errors.
	ErrorPasswordTooLong    = errors.New("password longer than 72 bytes")
	ErrorInvalidInput       = errors.New("username and password are required")
	ErrorUserAlreadyExists  = errors.New("user already exists")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Session errors (invalid signature, wrong claims or expired cookie).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
