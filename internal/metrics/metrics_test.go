package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRunAndDocument(t *testing.T) {
	r := New()
	r.RecordRun(OutcomeSuccess, 120*time.Millisecond)
	r.RecordRun(OutcomeSuccess, 80*time.Millisecond)
	r.RecordRun(OutcomeFailure, time.Millisecond)
	r.RecordDocument(map[string]int{"datasets": 5, "items": 40}, 3, 2048)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runs.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.definitions.WithLabelValues("datasets")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.pruned))
	assert.Equal(t, 2048.0, testutil.ToFloat64(r.size))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
}

func TestPush(t *testing.T) {
	var method, path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		method, path = req.Method, req.URL.Path
		b, _ := io.ReadAll(req.Body)
		body = string(b)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	r := New()
	r.RecordRun(OutcomeSuccess, time.Second)
	require.NoError(t, r.Push(context.Background(), srv.URL, "ci"))

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/definegen/instance/ci", path)
	assert.NotEmpty(t, body)
}

func TestPushFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New().Push(context.Background(), srv.URL, "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), srv.URL))
}
