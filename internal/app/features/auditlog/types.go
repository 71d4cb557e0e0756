// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/municipio/internal/app/store/audit"
)

// listItem is one audit event with names resolved for display.
type listItem struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Category   string            `json:"category"`
	EventType  string            `json:"event_type"`
	ActorName  string            `json:"actor,omitempty"`  // resolved from ActorID
	TargetName string            `json:"target,omitempty"` // resolved from UserID
	IP         string            `json:"ip"`
	Success    bool              `json:"success"`
	Reason     string            `json:"failure_reason,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Items      []listItem `json:"items"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Total      int64      `json:"total"`
}

type categoryOption struct {
	Value      string   `json:"value"`
	EventTypes []string `json:"event_types"`
}

func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, EventTypes: audit.EventTypes[audit.CategoryAuth]},
		{Value: audit.CategoryAdmin, EventTypes: audit.EventTypes[audit.CategoryAdmin]},
	}
}
