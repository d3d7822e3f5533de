package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/znlumins/webkalenderaihmpsti/internal/middleware"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
)

type responseEnvelope struct {
	Data    json.RawMessage        `json:"data"`
	Message string                 `json:"message"`
	Error   *errorBody             `json:"error"`
	Meta    map[string]interface{} `json:"meta"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newTestContext(method, target string, body io.Reader) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, body)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, rec
}

func withClaims(c *gin.Context, role models.Role, dept *int) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Email: "admin@hmpsti.id", Role: role, DepartmentID: dept})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func intPtr(v int) *int { return &v }
