package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
)

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// auditTrail writes best-effort audit rows. A failed write is logged, never returned.
type auditTrail struct {
	repo   auditRepository
	logger *zap.Logger
}

func (a auditTrail) record(ctx context.Context, actor *models.Actor, action, resource, resourceID string, oldValues, newValues interface{}) {
	if a.repo == nil {
		return
	}
	entry := &models.AuditLog{
		Action:    action,
		Resource:  resource,
		OldValues: marshalAudit(oldValues),
		NewValues: marshalAudit(newValues),
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if actor != nil {
		userID := actor.UserID
		entry.UserID = &userID
		entry.IPAddress = actor.IP
		entry.UserAgent = actor.UserAgent
	}
	if err := a.repo.Create(ctx, entry); err != nil && a.logger != nil {
		a.logger.Warn("failed to record audit log", zap.String("action", action), zap.String("resource_id", resourceID), zap.Error(err))
	}
}

func marshalAudit(v interface{}) []byte {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
