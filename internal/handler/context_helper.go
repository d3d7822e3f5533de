package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/znlumins/webkalenderaihmpsti/internal/middleware"
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	"github.com/znlumins/webkalenderaihmpsti/internal/service"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
	"github.com/znlumins/webkalenderaihmpsti/pkg/response"
	"github.com/znlumins/webkalenderaihmpsti/pkg/timezone"
)

func actorFromContext(c *gin.Context) *models.Actor {
	return middleware.Actor(c)
}

// bindJSON answers 400 itself and reports false when the body does not decode.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Because(appErrors.ErrValidation, err, message))
		return false
	}
	return true
}

// pathID returns the :id parameter. Rows are keyed by UUID, so any other
// value is answered 404 here rather than reaching Postgres as a cast error.
func pathID(c *gin.Context, resource string) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, resource+" not found"))
		return "", false
	}
	return id, true
}

// respondError adds the conflicting event to meta for schedule conflicts.
func respondError(c *gin.Context, err error) {
	var conflict *service.ScheduleConflictError
	if errors.As(err, &conflict) {
		response.Error(c, err, map[string]interface{}{"conflict": conflict.Conflict})
		return
	}
	response.Error(c, err)
}

// eventFilterFromQuery reads department_id, from and to. Bounds are RFC 3339
// instants or WIB wall clocks, with or without the time part.
func eventFilterFromQuery(c *gin.Context) (models.EventFilter, error) {
	var filter models.EventFilter
	if raw := strings.TrimSpace(c.Query("department_id")); raw != "" {
		dept, err := strconv.Atoi(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "department_id must be a number")
		}
		if _, ok := models.FindDepartment(dept); !ok {
			return filter, appErrors.Clone(appErrors.ErrValidation, "department_id must reference an existing department")
		}
		filter.DepartmentID = &dept
	}
	for _, bound := range []struct {
		name string
		dest **time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		raw := strings.TrimSpace(c.Query(bound.name))
		if raw == "" {
			continue
		}
		t, err := parseQueryTime(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, bound.name+" must be RFC 3339, YYYY-MM-DDTHH:mm or YYYY-MM-DD")
		}
		*bound.dest = &t
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return filter, appErrors.Clone(appErrors.ErrValidation, "from must be before to")
	}
	return filter, nil
}

func parseQueryTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, timezone.Location()); err == nil {
		return t.UTC(), nil
	}
	return timezone.FromFormInput(raw)
}
