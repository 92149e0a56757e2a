package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xemah/battleweb/pkg/health"
)

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	health.LivenessHandler()(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	t.Run("all healthy", func(t *testing.T) {
		t.Parallel()

		h := health.ReadinessHandler(health.Checks{
			"db":    func(ctx context.Context) error { return nil },
			"redis": func(ctx context.Context) error { return nil },
		})

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp health.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "ok", resp.Checks["db"])
	})

	t.Run("one failing check flips status", func(t *testing.T) {
		t.Parallel()

		h := health.ReadinessHandler(health.Checks{
			"db":    func(ctx context.Context) error { return nil },
			"redis": func(ctx context.Context) error { return errors.New("connection refused") },
		})

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp health.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "connection refused", resp.Checks["redis"])
	})
}
