// Package config handles configuration for the server component: defaults,
// a JSON overlay, environment variables and command-line flags, applied in
// that order.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime settings for the gophauth server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP endpoint.
//   - SecretKey: HMAC secret used to sign session cookies. Do not use the default in prod.
//   - SessionCookieName / SessionTTL / SessionSecure: session cookie transport settings.
//   - BcryptCost: work factor for password hashing.
//   - StorageBackend: "s3" or "memory".
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
//   - S3Timeout / S3MaxRetries: per-call bound and retry budget for transient storage failures.
//   - ConditionalWrites: create user records with If-None-Match so concurrent signups cannot overwrite each other.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP  string        `env:"ENDPOINT_ADDR_HTTP"`
	SecretKey         string        `env:"SECRET_KEY"`
	SessionCookieName string        `env:"SESSION_COOKIE_NAME"`
	SessionTTL        time.Duration `env:"SESSION_TTL"`
	SessionSecure     bool          `env:"SESSION_SECURE"`
	BcryptCost        int           `env:"BCRYPT_COST"`
	StorageBackend    string        `env:"STORAGE_BACKEND"`
	S3RootUser        string        `env:"S3_ROOT_USER"`
	S3RootPassword    string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket          string        `env:"S3_BUCKET"`
	S3Region          string        `env:"S3_REGION"`
	S3BaseEndpoint    string        `env:"S3_BASE_ENDPOINT"`
	S3Timeout         time.Duration `env:"S3_TIMEOUT"`
	S3MaxRetries      int           `env:"S3_MAX_RETRIES"`
	ConditionalWrites bool          `env:"CONDITIONAL_WRITES"`
	LogLevel          string        `env:"LOG_LEVEL"`
}

const (
	StorageS3     = "s3"
	StorageMemory = "memory"
)

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey and the S3 credentials must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.SecretKey = "secretKey"
	c.SessionCookieName = "session"
	c.SessionTTL = 24 * time.Hour
	c.SessionSecure = false
	c.BcryptCost = 10
	c.StorageBackend = StorageS3
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "users"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3Timeout = 5 * time.Second
	c.S3MaxRetries = 3
	c.ConditionalWrites = false
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the optional JSON file
// (-c/-config), then the environment, then command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageS3, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.SecretKey == "" {
		return errors.New("secret key must not be empty")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost %d out of range [4, 31]", c.BcryptCost)
	}
	if c.S3MaxRetries < 0 {
		return fmt.Errorf("negative S3 retry count %d", c.S3MaxRetries)
	}
	if c.StorageBackend == StorageS3 && c.S3Bucket == "" {
		return errors.New("S3 bucket must be set")
	}
	return nil
}
