// Package server wires the credential service together: it selects the
// blob store backend, builds the session manager and runs the HTTP front
// end until the process is told to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/blobstore"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpapi"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/session"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	metrics *metrics.Metrics
	server  *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	m := metrics.New()

	store, err := NewStore(ctx, c, logger, m)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	opts := []users.Option{users.WithRecorder(m)}
	if c.ConditionalWrites {
		opts = append(opts, users.WithConditionalWrites())
	}
	us := users.NewService(store, users.NewBcryptHasher(c.BcryptCost), logger, opts...)

	sm := session.NewManager([]byte(c.SecretKey), session.CookieOptions{
		Name:   c.SessionCookieName,
		TTL:    c.SessionTTL,
		Secure: c.SessionSecure,
	}, logger)

	srv := httpapi.NewServer(c.EndpointAddrHTTP, logger, us, sm, m)

	return &App{config: c, logger: logger, metrics: m, server: srv}, nil
}

// NewStore opens the configured blob store backend.
func NewStore(ctx context.Context, c *config.Config, logger logging.Logger, obs blobstore.Observer) (blobstore.Store, error) {
	switch c.StorageBackend {
	case config.StorageMemory:
		logger.Warn(ctx, "using in-memory storage, records are lost on exit")
		return blobstore.NewMemoryStore(), nil
	case config.StorageS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Options{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Timeout:      c.S3Timeout,
			MaxRetries:   c.S3MaxRetries,
			Logger:       logger,
			Observer:     obs,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a termination signal arrives or the
// HTTP server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}
