package middleware_test

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/config"
	"veridoc/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func loggedRouter(cfg config.LogConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(cfg))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestLogger_SkipsHealthProbes(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	r := loggedRouter(config.LogConfig{Level: "info"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, buf.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "GET /ping 200")
	assert.NotContains(t, buf.String(), "/healthz")
}

func TestLogger_DebugIncludesQueryString(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	r := loggedRouter(config.LogConfig{Level: "debug"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping?status=effective", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "/ping?status=effective")
}

func TestLogger_InfoOmitsQueryString(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	r := loggedRouter(config.LogConfig{Level: "info"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping?status=effective", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "GET /ping 200")
	assert.NotContains(t, buf.String(), "status=effective")
}
