package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistry_RecordPublish(t *testing.T) {
	r := NewRegistry()

	r.RecordPublish("petsim.Food", 3, 3, time.Millisecond, nil)
	r.RecordPublish("petsim.Food", 3, 2, time.Millisecond, errors.New("skipped"))
	r.RecordPublish("petsim.Sleep", 0, 0, time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.publishTotal.WithLabelValues("petsim.Food", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.publishTotal.WithLabelValues("petsim.Food", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.publishTotal.WithLabelValues("petsim.Sleep", "empty")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.deliveriesTotal.WithLabelValues("petsim.Food")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.skippedTotal.WithLabelValues("petsim.Food")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.subscribers.WithLabelValues("petsim.Food")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.subscribers.WithLabelValues("petsim.Sleep")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.publishDuration))
}

func TestRegistry_SetSystemInfo(t *testing.T) {
	r := NewRegistry()

	r.SetSystemInfo("1.2.3", "2026-01-01T00:00:00Z")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.systemInfo.WithLabelValues("1.2.3", "2026-01-01T00:00:00Z")))
	assert.Greater(t, testutil.ToFloat64(r.startTime), 0.0)
}

func TestServer_Endpoints(t *testing.T) {
	r := NewRegistry()
	r.RecordPublish("petsim.Food", 1, 1, time.Millisecond, nil)

	s := NewServer(ServerConfig{Port: 0, Timeout: time.Second}, r, zap.NewNop())

	for _, tc := range []struct {
		path string
		want string
	}{
		{path: "/health", want: `"status":"healthy"`},
		{path: "/ready", want: `"status":"ready"`},
		{path: "/metrics", want: "hub_publish_total"},
	} {
		t.Run(tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}
