package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var (
	valueFlags = []string{"-a", "-s", "-n", "-t", "-k", "-storage", "-u", "-p", "-b", "-g", "-e", "-o", "-r", "-l"}
	boolFlags  = []string{"-secure", "-cw"}
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-s string     session signing secret
//	-n string     session cookie name
//	-t duration   session lifetime (e.g., "24h")
//	-secure       mark the session cookie Secure
//	-k int        bcrypt cost
//	-storage      storage backend: s3 or memory
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-g string     S3 region
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-o duration   per-call S3 timeout
//	-r int        S3 retries on transient failures
//	-cw           conditional (create-if-absent) user record writes
//	-l string     log level
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], valueFlags, boolFlags...)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session signing secret")
	fs.StringVar(&config.SessionCookieName, "n", config.SessionCookieName, "session cookie name")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	fs.BoolVar(&config.SessionSecure, "secure", config.SessionSecure, "secure session cookie")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.StorageBackend, "storage", config.StorageBackend, "storage backend (s3|memory)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.DurationVar(&config.S3Timeout, "o", config.S3Timeout, "S3 call timeout")
	fs.IntVar(&config.S3MaxRetries, "r", config.S3MaxRetries, "S3 retries")
	fs.BoolVar(&config.ConditionalWrites, "cw", config.ConditionalWrites, "create user records with If-None-Match")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
