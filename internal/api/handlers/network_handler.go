package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medicalnetwork/internal/application/services"
	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
)

// NetworkDirectory is the part of services.DirectoryService the network
// endpoints need
type NetworkDirectory interface {
	Records(ctx context.Context) ([]entities.ProviderRecord, error)
	Stats() services.DirectoryStats
	Reload(ctx context.Context) (services.DirectoryStats, error)
}

// NetworkHandler serves the directory snapshot
type NetworkHandler struct {
	directory NetworkDirectory
	onReload  func(ctx context.Context) error
}

// NewNetworkHandler creates a network handler. onReload, when set, runs
// after every successful reload.
func NewNetworkHandler(directory NetworkDirectory, onReload func(ctx context.Context) error) *NetworkHandler {
	return &NetworkHandler{
		directory: directory,
		onReload:  onReload,
	}
}

// GetNetwork handles GET /api/network. A stale snapshot is served with
// X-Directory-Stale set; with no snapshot at all the request fails.
func (h *NetworkHandler) GetNetwork(w http.ResponseWriter, r *http.Request) {
	records, err := h.directory.Records(r.Context())
	if err != nil {
		if len(records) == 0 {
			respondWithAppError(w, r, err)
			return
		}
		w.Header().Set("X-Directory-Stale", "true")
	}
	respondWithJSON(w, http.StatusOK, records)
}

// GetStatus handles GET /api/network/status
func (h *NetworkHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.directory.Stats())
}

// Reload handles POST /api/network/reload
func (h *NetworkHandler) Reload(w http.ResponseWriter, r *http.Request) {
	stats, err := h.directory.Reload(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if h.onReload != nil {
		if err := h.onReload(r.Context()); err != nil {
			log.Warn().Err(err).Msg("Post-reload hook failed")
		}
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// ListSpecialties handles GET /api/specialties
func (h *NetworkHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	records, err := h.directory.Records(r.Context())
	if err != nil && len(records) == 0 {
		respondWithAppError(w, r, err)
		return
	}

	specialties := services.DistinctSpecialties(records)
	if specialties == nil {
		specialties = []string{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"specialties": specialties,
		"count":       len(specialties),
	})
}

// Health handles GET /health. It reports 200 even while the directory is
// unavailable so the process is not restarted over a missing file.
func (h *NetworkHandler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.directory.Stats()
	status := "ok"
	if !stats.Loaded {
		status = "degraded"
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":           status,
		"directory_loaded": stats.Loaded,
		"records":          stats.RecordCount,
	})
}
