package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedRouter(buf *bytes.Buffer) *gin.Engine {
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	r := gin.New()
	r.Use(CorrelationID())
	r.Use(Logger(logger))
	return r
}

func TestLoggerMiddleware_RequestLine(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	router := newLoggedRouter(&buf)
	router.GET("/api/v1/members/:id/passbook", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"entries": []string{}})
	})

	req, err := http.NewRequest(http.MethodGet, "/api/v1/members/m-1/passbook?limit=5", nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "passbook-ui")
	req.Header.Set(CorrelationIDHeader, "req-passbook")
	router.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	for _, fragment := range []string{
		`"level":"INFO"`,
		`"msg":"HTTP request"`,
		`"method":"GET"`,
		`"path":"/api/v1/members/m-1/passbook?limit=5"`,
		`"route":"/api/v1/members/:id/passbook"`,
		`"status":200`,
		`"latency":`,
		`"client_ip":`,
		`"user_agent":"passbook-ui"`,
		`"correlation_id":"req-passbook"`,
	} {
		assert.Contains(t, line, fragment)
	}
	assert.NotContains(t, line, `"errors"`)
}

func TestLoggerMiddleware_IncludesHandlerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	router := newLoggedRouter(&buf)
	router.POST("/api/v1/loan-requests/:id/approve", func(c *gin.Context) {
		_ = c.Error(errors.New("request is not pending"))
		c.Status(http.StatusConflict)
	})

	req, err := http.NewRequest(http.MethodPost, "/api/v1/loan-requests/r-1/approve", nil)
	require.NoError(t, err)
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `request is not pending`)
}

func TestLoggerMiddleware_LevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	router := newLoggedRouter(&buf)
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/missing", "/broken", "/health"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2, "health probes are logged at debug only")
	assert.Contains(t, lines[0], `"level":"WARN"`)
	assert.Contains(t, lines[0], `"route":"/missing"`)
	assert.Contains(t, lines[1], `"level":"ERROR"`)
	assert.Contains(t, lines[1], `"status":500`)
}
