package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
)

// AuditWriter persists audit rows.
type AuditWriter interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// AuditDenied records admin requests that ended in 401 or 403. Successful
// mutations are audited by the services themselves.
func AuditDenied(repo AuditWriter, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if repo == nil || (status != http.StatusUnauthorized && status != http.StatusForbidden) {
			return
		}

		entry := &models.AuditLog{
			Action:    models.AuditActionAccessDenied,
			Resource:  resource,
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		}
		if claims, ok := Claims(c); ok {
			userID := claims.UserID
			entry.UserID = &userID
		}
		if id := c.Param("id"); id != "" {
			entry.ResourceID = &id
		}
		entry.NewValues, _ = json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": status,
		})
		// Best effort: a lost row must not change the response already written.
		_ = repo.Create(c.Request.Context(), entry)
	}
}
