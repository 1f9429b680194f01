package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "5s" and integer nanoseconds are accepted. Pointer
// fields distinguish "absent" from zero values, so a partial file only
// overrides what it names.
type JsonConfig struct {
	EndpointAddrHTTP  *string         `json:"endpoint_addr_http"`
	SecretKey         *string         `json:"secret_key"`
	SessionCookieName *string         `json:"session_cookie_name"`
	SessionTTL        *timex.Duration `json:"session_ttl"`
	SessionSecure     *bool           `json:"session_secure"`
	BcryptCost        *int            `json:"bcrypt_cost"`
	StorageBackend    *string         `json:"storage_backend"`
	S3RootUser        *string         `json:"s3_root_user"`
	S3RootPassword    *string         `json:"s3_root_password"`
	S3Bucket          *string         `json:"s3_bucket"`
	S3Region          *string         `json:"s3_region"`
	S3BaseEndpoint    *string         `json:"s3_base_endpoint"`
	S3Timeout         *timex.Duration `json:"s3_timeout"`
	S3MaxRetries      *int            `json:"s3_max_retries"`
	ConditionalWrites *bool           `json:"conditional_writes"`
	LogLevel          *string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c / -config. With no
// such flag it leaves config untouched.
func parseJson(config *Config) error {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SessionCookieName, c.SessionCookieName)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.SessionSecure != nil {
		config.SessionSecure = *c.SessionSecure
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.S3Timeout != nil {
		config.S3Timeout = c.S3Timeout.Duration
	}
	if c.S3MaxRetries != nil {
		config.S3MaxRetries = *c.S3MaxRetries
	}
	if c.ConditionalWrites != nil {
		config.ConditionalWrites = *c.ConditionalWrites
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
