package prometheus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushCommand(t *testing.T) {
	var method, path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics("storefront", reg)
	metrics.RecordSubmission("created")
	metrics.RecordAuthAttempt("login", "success")

	require.NoError(t, PushCommand(context.Background(), srv.URL, "storefront", "add", reg))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/storefront/command/add", path)
	assert.Contains(t, body, "storefront_product_submissions_total")
	assert.Contains(t, body, "storefront_auth_attempts_total")
}

func TestPushCommand_DisabledWithoutURL(t *testing.T) {
	assert.NoError(t, PushCommand(context.Background(), "", "storefront", "add", prometheus.NewRegistry()))
}

func TestPushCommand_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	NewMetrics("storefront", reg).RecordSubmission("failed")
	assert.Error(t, PushCommand(context.Background(), srv.URL, "storefront", "add", reg))
}
