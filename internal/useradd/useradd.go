// Package useradd registers a user straight into the configured blob store,
// bypassing the web forms. Operators use it to seed accounts.
package useradd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// Registrar is the part of the credential service the command needs.
type Registrar interface {
	Register(ctx context.Context, username, password string) (string, error)
}

type Command struct {
	registrar Registrar
	in        *bufio.Reader
	fd        int
	out       io.Writer
}

// New builds a command that reads the username from in and the password
// from the terminal behind fd.
func New(r Registrar, in io.Reader, fd int, out io.Writer) *Command {
	return &Command{registrar: r, in: bufio.NewReader(in), fd: fd, out: out}
}

// Run prompts for a username and a confirmed password and registers them.
func (c *Command) Run(ctx context.Context) error {
	username, err := GetSimpleText(c.in, "Enter user name", c.out)
	if err != nil {
		return fmt.Errorf("read username: %w", err)
	}

	password, err := GetPassword(c.fd, "Enter password", c.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirm, err := GetPassword(c.fd, "Repeat password", c.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	name, err := c.registrar.Register(ctx, username, password)
	switch {
	case errors.Is(err, common.ErrorUserAlreadyExists):
		return fmt.Errorf("user %q: %w", username, err)
	case err != nil:
		return err
	}

	fmt.Fprintf(c.out, "User %s created\n", name)
	return nil
}
