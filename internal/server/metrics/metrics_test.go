package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{common.ErrorInvalidInput, "invalid_input"},
		{fmt.Errorf("register: %w", common.ErrorUserAlreadyExists), "already_exists"},
		{common.ErrorAlreadyExists, "already_exists"},
		{common.ErrorInvalidCredentials, "invalid_credentials"},
		{common.ErrorNotFound, "not_found"},
		{fmt.Errorf("%w: timeout", common.ErrorStorageUnavailable), "unavailable"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Result(tt.err))
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.RecordSignup(nil)
	m.RecordSignup(common.ErrorUserAlreadyExists)
	m.RecordLogin(common.ErrorInvalidCredentials)
	m.RecordLogin(common.ErrorInvalidCredentials)
	m.ObserveStorage("read", 20*time.Millisecond, common.ErrorNotFound)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Signups.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Signups.WithLabelValues("already_exists")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Logins.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageOps.WithLabelValues("read", "not_found")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordLogin(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `gophauth_logins_total{result="ok"} 1`)
}
