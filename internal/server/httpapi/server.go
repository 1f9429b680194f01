// Package httpapi is the HTML form front end: signup, login, the
// session-gated dashboard and logout.
package httpapi

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Credentials is what the handlers need from the credential service.
type Credentials interface {
	Register(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
}

type Server struct {
	address     string
	logger      logging.Logger
	credentials Credentials
	sessions    *session.Manager
	metrics     *metrics.Metrics
	engine      *gin.Engine
}

func NewServer(address string, l logging.Logger, creds Credentials, sessions *session.Manager, m *metrics.Metrics) *Server {
	s := &Server{
		address:     address,
		logger:      l.With("module", "http_server"),
		credentials: creds,
		sessions:    sessions,
		metrics:     m,
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	web := r.Group("/")
	web.Use(s.sessions.Middleware())

	web.GET("/signup", s.signupForm)
	web.POST("/signup", s.signup)
	web.GET("/login", s.loginForm)
	web.POST("/login", s.login)
	web.GET("/logout", s.logout)
	web.GET("/dashboard", session.RequireIdentity("/login"), s.dashboard)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
