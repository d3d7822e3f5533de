package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, headers map[string]string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, seen
}

func TestMiddlewareReusesInboundID(t *testing.T) {
	w, seen := serve(t, map[string]string{Header: "req-2024.08:12_a"})
	assert.Equal(t, "req-2024.08:12_a", seen)
	assert.Equal(t, "req-2024.08:12_a", w.Header().Get(Header))
}

func TestMiddlewareFallsBackToCorrelationID(t *testing.T) {
	_, seen := serve(t, map[string]string{CorrelationHeader: "edge-42"})
	assert.Equal(t, "edge-42", seen)
}

func TestMiddlewareReplacesUnsafeIDs(t *testing.T) {
	cases := map[string]string{
		"missing":  "",
		"too long": strings.Repeat("a", maxLength+1),
		"newline":  "abc\nforged=1",
		"spaces":   "has space",
	}
	for name, inbound := range cases {
		t.Run(name, func(t *testing.T) {
			headers := map[string]string{}
			if inbound != "" {
				headers[Header] = inbound
			}
			w, seen := serve(t, headers)
			_, err := uuid.Parse(seen)
			require.NoError(t, err)
			assert.Equal(t, seen, w.Header().Get(Header))
		})
	}
}

func TestValueWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, Value(c))
}
