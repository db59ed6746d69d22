package entities

import (
	"time"
)

// SearchEvent represents a single search interaction for analytics.
type SearchEvent struct {
	ID                   string    `json:"id" db:"id"`
	Kind                 string    `json:"kind" db:"kind"`
	Symptoms             string    `json:"symptoms" db:"symptoms"`
	Location             string    `json:"location" db:"location"`
	ResolvedLocation     string    `json:"resolved_location" db:"resolved_location"`
	RecommendedSpecialty string    `json:"recommended_specialty" db:"recommended_specialty"`
	ClassificationSource string    `json:"classification_source" db:"classification_source"`
	ResultCount          int       `json:"result_count" db:"result_count"`
	LatencyMs            int       `json:"latency_ms" db:"latency_ms"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}

const (
	SearchEventKindSymptoms = "symptoms"
	SearchEventKindProvider = "provider"
	SearchEventKindReport   = "report"
)
