package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/session"
)

const (
	msgRequired           = "Username and password are required"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgUnavailable        = "Service unavailable"
	msgInternal           = "Internal server error"
)

func (s *Server) signupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", nil)
}

func (s *Server) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

func (s *Server) signup(c *gin.Context) {
	username, err := s.credentials.Register(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.establish(c, username)
}

func (s *Server) login(c *gin.Context) {
	username, err := s.credentials.Authenticate(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.establish(c, username)
}

func (s *Server) establish(c *gin.Context, username string) {
	sess := session.From(c)
	sess.Establish(username)
	if err := s.sessions.Save(c.Writer, sess); err != nil {
		s.logger.Error(c.Request.Context(), "session save failed", "error", err)
		c.String(http.StatusInternalServerError, msgInternal)
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (s *Server) dashboard(c *gin.Context) {
	username, _ := session.From(c).Current()
	c.String(http.StatusOK, "Welcome %s to your dashboard!", username)
}

func (s *Server) logout(c *gin.Context) {
	sess := session.From(c)
	sess.Clear()
	if err := s.sessions.Save(c.Writer, sess); err != nil {
		s.logger.Error(c.Request.Context(), "session save failed", "error", err)
	}
	c.Redirect(http.StatusFound, "/login")
}

// fail maps a credential service error to a status and a plain-text body.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorPasswordTooLong):
		c.String(http.StatusBadRequest, msgPasswordTooLong)
	case errors.Is(err, common.ErrorInvalidInput):
		c.String(http.StatusBadRequest, msgRequired)
	case errors.Is(err, common.ErrorUserAlreadyExists):
		c.String(http.StatusBadRequest, msgUserExists)
	case errors.Is(err, common.ErrorInvalidCredentials):
		c.String(http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, common.ErrorStorageUnavailable):
		s.logger.Error(c.Request.Context(), "storage unavailable", "path", c.FullPath(), "error", err)
		c.String(http.StatusServiceUnavailable, msgUnavailable)
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.String(http.StatusInternalServerError, msgInternal)
	}
}
