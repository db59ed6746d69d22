package entities

import (
	"time"

	"github.com/google/uuid"
)

// DirectoryEventType represents the type of directory event
type DirectoryEventType string

const (
	// DirectoryEventReloaded is published after a new snapshot replaced the old one
	DirectoryEventReloaded DirectoryEventType = "directory_reloaded"
	// DirectoryEventInvalidated asks every instance to re-read the source
	DirectoryEventInvalidated DirectoryEventType = "directory_invalidated"
)

// DirectoryEvent is broadcast between service instances when the directory changes
type DirectoryEvent struct {
	ID            string             `json:"id"`
	EventType     DirectoryEventType `json:"event_type"`
	InstanceID    string             `json:"instance_id"`
	RecordCount   int                `json:"record_count"`
	SourceModTime time.Time          `json:"source_mod_time"`
	Timestamp     time.Time          `json:"timestamp"`
}

// NewDirectoryEvent creates a new directory event
func NewDirectoryEvent(eventType DirectoryEventType, instanceID string, recordCount int, modTime time.Time) *DirectoryEvent {
	return &DirectoryEvent{
		ID:            uuid.New().String(),
		EventType:     eventType,
		InstanceID:    instanceID,
		RecordCount:   recordCount,
		SourceModTime: modTime,
		Timestamp:     time.Now(),
	}
}
