package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"savor/internal/common"
	"savor/internal/logging"
	"savor/internal/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	e := echo.New()
	e.Use(RequestID)
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("request_id").(string))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := rec.Header().Get(logging.RequestIDKey)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(logging.RequestIDKey, "fixed")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "fixed", rec.Header().Get(logging.RequestIDKey))
}

func TestRequestLogger_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	e := echo.New()
	e.Use(RequestID, RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/fail", func(c echo.Context) error { return errors.New("boom") })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "HTTP request completed", logs.All()[0].Message)
	assert.Equal(t, "HTTP request failed", logs.All()[1].Message)
	assert.NotEmpty(t, logs.All()[1].ContextMap()["request_id"])
}

func TestMetrics_CountsByRouteTemplate(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry(), "test")

	e := echo.New()
	e.Use(Metrics(m))
	e.GET("/items/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, id := range []string{"a", "b"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "200")))
}

func TestOwner(t *testing.T) {
	userID := uuid.New()

	e := echo.New()
	e.Use(Owner)
	e.GET("/", func(c echo.Context) error {
		id, ok := common.GetUserIDFromContext(c.Request().Context())
		if !ok {
			return c.String(http.StatusOK, "none")
		}
		return c.String(http.StatusOK, id.String())
	})

	cases := map[string]string{
		userID.String(): userID.String(),
		"not-a-uuid":    "none",
		"":              "none",
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(UserIDHeader, header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Body.String())
	}
}

func TestVersionRoute(t *testing.T) {
	e := echo.New()
	vm := NewVersionMiddleware()
	g := vm.VersionRoute(e, vm.GetCurrentVersion())
	g.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/x", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
}
