// Package events publishes audit events for category and transaction changes
// to interested consumers.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Event describes one change made through the API.
type Event struct {
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   uint                   `json:"resource_id"`
	UserID       uint                   `json:"user_id"`
	Changes      map[string]interface{} `json:"changes,omitempty"`
	OccurredAt   time.Time              `json:"occurred_at"`
}

// RoutingKey returns "<resource_type>.<action>" in lower case,
// e.g. "category.delete_category".
func (e Event) RoutingKey() string {
	return strings.ToLower(e.ResourceType + "." + e.Action)
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
