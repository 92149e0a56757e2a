package app_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xemah/battleweb/internal/app"
)

func TestJSONEnvelopes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind string
		data any
		want string
	}{
		{
			name: "success with data",
			kind: app.JSONSuccess,
			data: map[string]any{"x": 1},
			want: "{\n    \"data\": {\n        \"x\": 1\n    },\n    \"success\": true\n}",
		},
		{
			name: "success without data",
			kind: app.JSONSuccess,
			want: "{\n    \"success\": true\n}",
		},
		{
			name: "error with message",
			kind: app.JSONError,
			data: "bad",
			want: "{\n    \"error\": \"bad\",\n    \"success\": false\n}",
		},
		{
			name: "error without message",
			kind: app.JSONError,
			want: "{\n    \"success\": false\n}",
		},
		{
			name: "raw with data",
			kind: app.JSONRaw,
			data: map[string]any{"x": 1},
			want: "{\n    \"data\": {\n        \"x\": 1\n    }\n}",
		},
		{
			name: "raw without data",
			kind: app.JSONRaw,
			want: "{}",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mod := routeModule{name: "json", fn: func(r app.Router) error {
				r.GET("/json", func(c app.Context) error {
					return c.JSON(tt.kind, tt.data)
				})
				return nil
			}}
			env := newTestEnv(t, app.WithRoutes(mod))

			rec := newClient(t, env.app).get("/json")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestReload(t *testing.T) {
	t.Parallel()

	mod := routeModule{name: "reload", fn: func(r app.Router) error {
		r.GET("/items", func(c app.Context) error {
			return c.Reload()
		})
		return nil
	}}
	env := newTestEnv(t, app.WithRoutes(mod))

	rec := newClient(t, env.app).get("/items?sort=asc")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/items?sort=asc", rec.Header().Get("Location"))
}

func TestThrowError_KeepsStatus(t *testing.T) {
	t.Parallel()

	mod := routeModule{name: "throw", fn: func(r app.Router) error {
		r.GET("/throw", func(c app.Context) error {
			return c.ThrowError("nope")
		})
		return nil
	}}
	env := newTestEnv(t, app.WithRoutes(mod))

	rec := newClient(t, env.app).get("/throw")
	require.Equal(t, http.StatusOK, rec.Code, "ThrowError alone must not change the status")
	assert.Equal(t, "error:nope", rec.Body.String())
}

func TestThrow404_SetsStatus(t *testing.T) {
	t.Parallel()

	mod := routeModule{name: "gone", fn: func(r app.Router) error {
		r.GET("/gone", func(c app.Context) error {
			return c.Throw404()
		})
		return nil
	}}
	env := newTestEnv(t, app.WithRoutes(mod))

	rec := newClient(t, env.app).get("/gone")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "error:")
}

func TestResponseOperations_NoOpOnceWritten(t *testing.T) {
	t.Parallel()

	mod := routeModule{name: "double", fn: func(r app.Router) error {
		r.GET("/double", func(c app.Context) error {
			if err := c.JSON(app.JSONSuccess, nil); err != nil {
				return err
			}
			// All of these must be silent no-ops now.
			if err := c.Render("home"); err != nil {
				return err
			}
			if err := c.Redirect("/elsewhere"); err != nil {
				return err
			}
			return c.Throw404()
		})
		return nil
	}}
	env := newTestEnv(t, app.WithRoutes(mod))

	rec := newClient(t, env.app).get("/double")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "{\n    \"success\": true\n}", rec.Body.String())
	assert.Empty(t, rec.Header().Get("Location"))
}
