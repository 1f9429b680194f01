package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Name   string
	TTL    time.Duration // zero means a browser-session cookie with no exp claim
	Secure bool
}

// Manager loads sessions from and saves them to HS256-signed cookies.
type Manager struct {
	secret []byte
	opts   CookieOptions
	logger logging.Logger
	now    func() time.Time
}

func NewManager(secret []byte, opts CookieOptions, logger logging.Logger) *Manager {
	if opts.Name == "" {
		opts.Name = "session"
	}
	return &Manager{
		secret: secret,
		opts:   opts,
		logger: logger.With("module", "session"),
		now:    time.Now,
	}
}

// Load reads the session cookie. Missing, forged or expired cookies yield an
// empty session.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(m.opts.Name)
	if err != nil || cookie.Value == "" {
		return New()
	}

	identity, err := m.decode(cookie.Value)
	if err != nil {
		m.logger.Debug(r.Context(), "session cookie rejected", "error", err)
		return New()
	}
	return &Session{identity: identity}
}

// Save writes the cookie if the session changed. A cleared session gets an
// expired cookie so the browser drops it.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	if !s.Modified() {
		return nil
	}

	identity, ok := s.Current()
	if !ok {
		http.SetCookie(w, m.cookie("", -1, time.Time{}))
		return nil
	}

	token, expires, err := m.encode(identity)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	maxAge := 0
	if m.opts.TTL > 0 {
		maxAge = int(m.opts.TTL.Seconds())
	}
	http.SetCookie(w, m.cookie(token, maxAge, expires))
	return nil
}

func (m *Manager) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) encode(identity string) (string, time.Time, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:  identity,
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(now),
	}

	var expires time.Time
	if m.opts.TTL > 0 {
		expires = now.Add(m.opts.TTL)
		claims.ExpiresAt = jwt.NewNumericDate(expires)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (m *Manager) decode(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.opts.TTL > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", common.ErrTokenExpired
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}

// Middleware attaches the request's session to the gin context.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(common.SessionContextKey, m.Load(c.Request))
		c.Next()
	}
}

// RequireIdentity redirects to loginPath when no identity is bound.
func RequireIdentity(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := From(c).Current(); !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
