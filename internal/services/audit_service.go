package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/events"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// Audit actions recorded for category and transaction changes.
const (
	AuditCreateCategory    = "CREATE_CATEGORY"
	AuditUpdateCategory    = "UPDATE_CATEGORY"
	AuditDeleteCategory    = "DELETE_CATEGORY"
	AuditCreateTransaction = "CREATE_TRANSACTION"
	AuditUpdateTransaction = "UPDATE_TRANSACTION"
	AuditDeleteTransaction = "DELETE_TRANSACTION"

	ResourceCategory    = "category"
	ResourceTransaction = "transaction"
)

// auditService writes audit rows and forwards them to the event publisher.
type auditService struct {
	db        *gorm.DB
	publisher events.Publisher
	now       func() time.Time
}

// NewAuditService creates a new AuditServicer. A nil publisher drops events.
func NewAuditService(db *gorm.DB, publisher events.Publisher) AuditServicer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &auditService{db: db, publisher: publisher, now: time.Now}
}

// Log records an audit event. Errors are logged and never returned, so a
// failing audit trail cannot undo a change that already succeeded.
func (s *auditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{}) {
	log := logger.With(
		"user_id", userID,
		"action", action,
		"resource_type", resourceType,
		"resource_id", resourceID,
	)

	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			log.Errorw("failed to marshal audit log changes", "error", err)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		log.Errorw("failed to create audit log entry", "error", err)
	}

	event := events.Event{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		UserID:       userID,
		Changes:      changes,
		OccurredAt:   s.now().UTC(),
	}
	if err := s.publisher.Publish(context.Background(), event); err != nil {
		log.Warnw("failed to publish audit event", "error", err, "routing_key", event.RoutingKey())
	}
}
