package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		withCorrelation bool
		handler         gin.HandlerFunc
		expectedCode    int
		expectedLog     []string
	}{
		{
			name:            "string panic inside a correlated request",
			withCorrelation: true,
			handler:         func(*gin.Context) { panic("ledger invariant broken") },
			expectedCode:    http.StatusInternalServerError,
			expectedLog: []string{
				`"msg":"Panic recovered"`,
				`"error":"ledger invariant broken"`,
				`"correlation_id":"req-77"`,
				`"path":"/api/v1/loans"`,
				`"method":"POST"`,
				`"stack":`,
			},
		},
		{
			name:         "error panic without correlation middleware",
			handler:      func(*gin.Context) { panic(errors.New("nil snapshot")) },
			expectedCode: http.StatusInternalServerError,
			expectedLog:  []string{`"level":"ERROR"`, `nil snapshot`},
		},
		{
			name:         "no panic passes through",
			handler:      func(c *gin.Context) { c.Status(http.StatusCreated) },
			expectedCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuffer bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logBuffer, nil))

			router := gin.New()
			router.Use(Recovery(logger))
			if tt.withCorrelation {
				router.Use(CorrelationID())
			}
			router.POST("/api/v1/loans", tt.handler)

			req, err := http.NewRequest(http.MethodPost, "/api/v1/loans", nil)
			require.NoError(t, err)
			req.Header.Set(CorrelationIDHeader, "req-77")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedLog == nil {
				assert.Empty(t, logBuffer.String())
				return
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			errorField, ok := body["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "INTERNAL_SERVER_ERROR", errorField["code"])

			if tt.withCorrelation {
				assert.Equal(t, "req-77", body["correlation_id"])
			} else {
				assert.NotContains(t, body, "correlation_id")
			}

			for _, fragment := range tt.expectedLog {
				assert.Contains(t, logBuffer.String(), fragment)
			}
		})
	}
}
