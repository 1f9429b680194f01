// Package users implements registration and authentication against user
// records kept in the blob store, one JSON document per user.
package users

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/blobstore"
)

// Recorder receives the outcome of every Register and Authenticate call.
type Recorder interface {
	RecordSignup(err error)
	RecordLogin(err error)
}

type Option func(*Service)

// WithConditionalWrites makes Register create records with the store's
// create-if-absent primitive, so of two racing signups for one username
// only one succeeds. It has no effect on stores that do not implement
// blobstore.Creator.
func WithConditionalWrites() Option {
	return func(s *Service) { s.conditional = true }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// Service registers and authenticates users.
//
// Without conditional writes, Register is check-then-write: two concurrent
// signups for the same username can both succeed and the later write wins.
type Service struct {
	store       blobstore.Store
	hasher      Hasher
	logger      logging.Logger
	recorder    Recorder
	conditional bool

	dummyOnce sync.Once
	dummyHash string
}

func NewService(store blobstore.Store, hasher Hasher, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		hasher: hasher,
		logger: logger.With("module", "users"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user record and returns the username to bind to the
// session.
func (s *Service) Register(ctx context.Context, username, password string) (name string, err error) {
	defer func() {
		if s.recorder != nil {
			s.recorder.RecordSignup(err)
		}
	}()

	if username == "" || password == "" {
		return "", common.ErrorInvalidInput
	}

	key := Key(username)

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		s.logger.Error(ctx, "user lookup failed", "key", key, "error", err)
		return "", fmt.Errorf("check user %q: %w", username, err)
	}
	if exists {
		return "", common.ErrorUserAlreadyExists
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return "", err
	}

	data, err := Encode(Record{Username: username, PasswordHash: hash})
	if err != nil {
		return "", err
	}

	if err := s.write(ctx, key, data); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.logger.Info(ctx, "signup lost race", "username", username)
			return "", common.ErrorUserAlreadyExists
		}
		s.logger.Error(ctx, "user write failed", "key", key, "error", err)
		return "", fmt.Errorf("save user %q: %w", username, err)
	}

	s.logger.Info(ctx, "user registered", "username", username)
	return username, nil
}

func (s *Service) write(ctx context.Context, key string, data []byte) error {
	if s.conditional {
		if c, ok := s.store.(blobstore.Creator); ok {
			return c.Create(ctx, key, data, common.JSONContentType)
		}
	}
	return s.store.Write(ctx, key, data, common.JSONContentType)
}

// Authenticate checks the password against the stored record and returns
// the username. An unknown user and a wrong password both yield
// common.ErrorInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (name string, err error) {
	defer func() {
		if s.recorder != nil {
			s.recorder.RecordLogin(err)
		}
	}()

	if username == "" || password == "" {
		return "", common.ErrorInvalidInput
	}

	key := Key(username)

	data, err := s.store.Read(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		// same bcrypt work as a real check
		s.burnVerify(ctx, password)
		return "", common.ErrorInvalidCredentials
	}
	if err != nil {
		s.logger.Error(ctx, "user lookup failed", "key", key, "error", err)
		return "", fmt.Errorf("load user %q: %w", username, err)
	}

	record, err := Decode(data)
	if err == nil && record.Username != username {
		err = fmt.Errorf("%w: record names %q", common.ErrorMalformedRecord, record.Username)
	}
	if err != nil {
		s.logger.Error(ctx, "malformed user record", "key", key, "error", err)
		return "", common.ErrorInvalidCredentials
	}

	ok, err := s.hasher.Verify(ctx, record.PasswordHash, password)
	if errors.Is(err, common.ErrorMalformedRecord) {
		s.logger.Error(ctx, "malformed password hash", "key", key, "error", err)
		return "", common.ErrorInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !ok {
		s.logger.Info(ctx, "password mismatch", "username", username)
		return "", common.ErrorInvalidCredentials
	}

	return username, nil
}

func (s *Service) burnVerify(ctx context.Context, password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(context.Background(), "gophauth-unknown-user")
		if err == nil {
			s.dummyHash = h
		}
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(ctx, s.dummyHash, password)
	}
}
