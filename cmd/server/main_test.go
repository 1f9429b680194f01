package main

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_ConfigErrorIsReturned(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = []string{"server", "-storage", "ftp"}

	err := run(context.Background())
	assert.ErrorContains(t, err, "config error")
}
