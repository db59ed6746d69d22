package services

import (
	"context"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	"github.com/zatekoja/medicalnetwork/internal/domain/providers"
	"github.com/zatekoja/medicalnetwork/internal/domain/repositories"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/medicalnetwork/pkg/errors"
	"github.com/zatekoja/medicalnetwork/pkg/utils"
)

// RecordLoader parses a directory source file
type RecordLoader interface {
	Load(ctx context.Context, source string) ([]entities.ProviderRecord, error)
}

// DirectoryReader is the read side of the directory used by request handlers
type DirectoryReader interface {
	Records(ctx context.Context) ([]entities.ProviderRecord, error)
}

// DirectoryStats describes the snapshot currently served
type DirectoryStats struct {
	Loaded        bool      `json:"loaded"`
	SourcePath    string    `json:"source_path"`
	RecordCount   int       `json:"record_count"`
	SourceModTime time.Time `json:"source_mod_time"`
	LoadedAt      time.Time `json:"loaded_at"`
	ReloadCount   int64     `json:"reload_count"`
	LastError     string    `json:"last_error,omitempty"`
}

type directorySnapshot struct {
	records  []entities.ProviderRecord
	modTime  time.Time
	loadedAt time.Time
}

// DirectoryService owns the in-memory directory snapshot. The snapshot is
// swapped as a whole through an atomic pointer, so readers see either the
// old or the new record slice and never a partial one. Concurrent misses may
// parse the source more than once.
type DirectoryService struct {
	source     string
	loader     RecordLoader
	instanceID string

	snapshot    atomic.Pointer[directorySnapshot]
	forceReload atomic.Bool
	reloads     atomic.Int64
	lastError   atomic.Pointer[string]

	eventBus providers.EventBus
	index    repositories.ProviderIndexRepository
}

// NewDirectoryService creates a directory service reading source with loader
func NewDirectoryService(source string, loader RecordLoader) *DirectoryService {
	return &DirectoryService{
		source:     source,
		loader:     loader,
		instanceID: uuid.New().String(),
	}
}

// SetEventBus enables cross-instance invalidation events
func (s *DirectoryService) SetEventBus(eventBus providers.EventBus) {
	s.eventBus = eventBus
}

// SetIndex enables re-indexing of the suggest index after every reload
func (s *DirectoryService) SetIndex(index repositories.ProviderIndexRepository) {
	s.index = index
}

// Records returns the current snapshot, reloading it first when the source
// modification time changed or a reload was forced. When the source cannot
// be read the previous snapshot, or an empty slice, is returned together
// with a SOURCE_UNAVAILABLE error.
func (s *DirectoryService) Records(ctx context.Context) ([]entities.ProviderRecord, error) {
	current := s.snapshot.Load()

	info, err := os.Stat(s.source)
	if err != nil {
		return s.degraded(current, apperrors.NewSourceUnavailableError("directory source not found", err))
	}

	forced := s.forceReload.Swap(false)
	if current != nil && !forced && current.modTime.Equal(info.ModTime()) {
		return current.records, nil
	}

	start := time.Now()
	records, err := s.loader.Load(ctx, s.source)
	observability.RecordDirectoryReload(ctx, len(records), time.Since(start), err)
	if err != nil {
		if forced {
			s.forceReload.Store(true)
		}
		return s.degraded(current, err)
	}
	if records == nil {
		records = []entities.ProviderRecord{}
	}

	next := &directorySnapshot{
		records:  records,
		modTime:  info.ModTime(),
		loadedAt: time.Now(),
	}
	s.snapshot.Store(next)
	s.lastError.Store(nil)
	s.reloads.Add(1)

	log.Info().
		Str("source", s.source).
		Int("records", len(records)).
		Time("mod_time", next.modTime).
		Msg("Directory snapshot replaced")

	s.afterReload(ctx, next)
	return records, nil
}

func (s *DirectoryService) degraded(current *directorySnapshot, err error) ([]entities.ProviderRecord, error) {
	msg := err.Error()
	s.lastError.Store(&msg)
	log.Warn().Err(err).Str("source", s.source).Bool("has_snapshot", current != nil).Msg("Directory load failed")

	if current != nil {
		return current.records, err
	}
	return []entities.ProviderRecord{}, err
}

// Invalidate forces the next Records call to re-read the source
func (s *DirectoryService) Invalidate() {
	s.forceReload.Store(true)
}

// Reload re-reads the source now and asks peer instances to do the same
func (s *DirectoryService) Reload(ctx context.Context) (DirectoryStats, error) {
	s.Invalidate()
	records, err := s.Records(ctx)
	if err == nil && s.eventBus != nil {
		event := entities.NewDirectoryEvent(entities.DirectoryEventInvalidated, s.instanceID, len(records), s.Stats().SourceModTime)
		if pubErr := s.eventBus.Publish(ctx, providers.EventChannelDirectory, event); pubErr != nil {
			log.Warn().Err(pubErr).Msg("Failed to publish directory invalidation")
		}
	}
	return s.Stats(), err
}

// Stats reports the snapshot currently served
func (s *DirectoryService) Stats() DirectoryStats {
	stats := DirectoryStats{
		SourcePath:  s.source,
		ReloadCount: s.reloads.Load(),
	}
	if snap := s.snapshot.Load(); snap != nil {
		stats.Loaded = true
		stats.RecordCount = len(snap.records)
		stats.SourceModTime = snap.modTime
		stats.LoadedAt = snap.loadedAt
	}
	if msg := s.lastError.Load(); msg != nil {
		stats.LastError = *msg
	}
	return stats
}

// StartInvalidationListener invalidates the local snapshot whenever another
// instance publishes an invalidation. It returns once subscribed; the
// listener stops when ctx is cancelled.
func (s *DirectoryService) StartInvalidationListener(ctx context.Context) error {
	if s.eventBus == nil {
		return nil
	}

	events, err := s.eventBus.Subscribe(ctx, providers.EventChannelDirectory)
	if err != nil {
		return apperrors.NewExternalError("failed to subscribe to directory events", err)
	}

	go func() {
		for event := range events {
			if event == nil || event.InstanceID == s.instanceID {
				continue
			}
			if event.EventType != entities.DirectoryEventInvalidated {
				continue
			}
			log.Info().Str("from_instance", event.InstanceID).Msg("Directory invalidated by peer")
			s.Invalidate()
		}
	}()
	return nil
}

func (s *DirectoryService) afterReload(ctx context.Context, snap *directorySnapshot) {
	if s.eventBus != nil {
		event := entities.NewDirectoryEvent(entities.DirectoryEventReloaded, s.instanceID, len(snap.records), snap.modTime)
		if err := s.eventBus.Publish(ctx, providers.EventChannelDirectory, event); err != nil {
			log.Warn().Err(err).Msg("Failed to publish directory reload event")
		}
	}

	if s.index != nil {
		go func() {
			indexCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Minute)
			defer cancel()
			if err := s.index.IndexAll(indexCtx, snap.records); err != nil {
				log.Warn().Err(err).Msg("Failed to index directory snapshot")
			}
		}()
	}
}

// DistinctSpecialties lists the provider types and specialties present in
// records, deduplicated by normalized form and sorted.
func DistinctSpecialties(records []entities.ProviderRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(v string) {
		key := utils.NormalizeArabic(v)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	for i := range records {
		add(records[i].ProviderType)
		add(records[i].SpecialtyMain)
		add(records[i].SpecialtySub)
	}
	sort.Strings(out)
	return out
}

// DistinctRegions lists governorates in first-seen order
func DistinctRegions(records []entities.ProviderRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range records {
		key := records[i].NormalizedRegion
		if key == "" {
			key = utils.NormalizeArabic(records[i].Governorate)
		}
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, records[i].Governorate)
	}
	return out
}
