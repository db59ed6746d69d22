package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	apperrors "github.com/zatekoja/medicalnetwork/pkg/errors"
	"github.com/zatekoja/medicalnetwork/pkg/utils"
)

// LoadStats summarises one load of the directory source
type LoadStats struct {
	RowsRead    int
	RowsKept    int
	RowsDropped int
	Strategy    Strategy
}

// Loader turns a directory source file into provider records
type Loader struct {
	aliases []FieldAliases
}

// NewLoader creates a loader using DefaultFieldAliases
func NewLoader() *Loader {
	return &Loader{aliases: DefaultFieldAliases}
}

// NewLoaderWithAliases creates a loader with a custom alias table
func NewLoaderWithAliases(aliases []FieldAliases) *Loader {
	return &Loader{aliases: aliases}
}

// Load reads source and returns its records with search keys built. Any
// failure to open or parse the file is reported as SOURCE_UNAVAILABLE with
// a nil slice; malformed rows are dropped silently.
func (l *Loader) Load(ctx context.Context, source string) ([]entities.ProviderRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewSourceUnavailableError("directory load cancelled", err)
	}

	if strings.EqualFold(filepath.Ext(source), ".json") {
		records, err := loadJSON(source)
		if err != nil {
			return nil, apperrors.NewSourceUnavailableError("failed to read directory source", err)
		}
		log.Info().Str("source", source).Int("records", len(records)).Msg("Loaded directory from JSON export")
		return records, nil
	}

	table, err := OpenTable(source)
	if err != nil {
		return nil, apperrors.NewSourceUnavailableError("failed to read directory source", err)
	}

	records, stats := l.FromTable(table)
	log.Info().
		Str("source", source).
		Str("strategy", string(stats.Strategy)).
		Int("rows_read", stats.RowsRead).
		Int("rows_kept", stats.RowsKept).
		Int("rows_dropped", stats.RowsDropped).
		Msg("Loaded directory")

	return records, nil
}

// FromTable converts an already read table into records
func (l *Loader) FromTable(table *Table) ([]entities.ProviderRecord, LoadStats) {
	aliases := normalizeAliases(l.aliases)
	header, rows := locateHeader(table, aliases)
	cols := resolveColumns(header, aliases)
	stats := LoadStats{RowsRead: len(rows), Strategy: cols.Strategy}

	headerRegion := utils.NormalizeArabic(cellAt(header, cols.Col(FieldRegion)))
	headerName := utils.NormalizeArabic(cellAt(header, cols.Col(FieldName)))

	records := make([]entities.ProviderRecord, 0, len(rows))
	ids := newIDAllocator()

	for i, row := range rows {
		get := func(f Field) string {
			return utils.CleanCell(cellAt(row, cols.Col(f)))
		}

		region, name := get(FieldRegion), get(FieldName)
		if region == "" && name == "" {
			stats.RowsDropped++
			continue
		}
		if isRepeatedHeader(region, headerRegion, name, headerName) {
			stats.RowsDropped++
			continue
		}

		rec := entities.ProviderRecord{
			ID:            ids.next(get(FieldID), i+1),
			Governorate:   region,
			Area:          get(FieldArea),
			ProviderType:  get(FieldType),
			SpecialtyMain: get(FieldSpecialtyMain),
			SpecialtySub:  get(FieldSpecialtySub),
			Name:          name,
			Address:       get(FieldAddress),
			Phones:        collectPhones(row, cols.Phones),
			Hotline:       cleanHotline(cellAt(row, cols.Col(FieldHotline))),
		}
		rec.BuildSearchKeys()
		records = append(records, rec)
	}

	stats.RowsKept = len(records)
	return records, stats
}

func isRepeatedHeader(region, headerRegion, name, headerName string) bool {
	if headerRegion != "" && utils.NormalizeArabic(region) == headerRegion {
		return true
	}
	return headerName != "" && region == "" && utils.NormalizeArabic(name) == headerName
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func collectPhones(row []string, cols []int) []string {
	phones := []string{}
	seen := make(map[string]struct{})
	for _, idx := range cols {
		for _, p := range utils.SplitPhones(cellAt(row, idx)) {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			phones = append(phones, p)
		}
	}
	return phones
}

// cleanHotline keeps the first number of the hotline cell
func cleanHotline(cell string) string {
	if phones := utils.SplitPhones(cell); len(phones) > 0 {
		return phones[0]
	}
	return ""
}

// idAllocator keeps record IDs unique within one snapshot
type idAllocator struct {
	used map[string]int
}

func newIDAllocator() *idAllocator {
	return &idAllocator{used: make(map[string]int)}
}

func (a *idAllocator) next(sourceID string, rowIndex int) string {
	id := utils.CleanNumeric(sourceID)
	if id == "" {
		id = strings.TrimSpace(sourceID)
	}
	if id == "" {
		id = "row-" + strconv.Itoa(rowIndex)
	}

	n := a.used[id]
	a.used[id] = n + 1
	if n == 0 {
		return id
	}

	for {
		n++
		candidate := id + "-" + strconv.Itoa(n)
		if _, taken := a.used[candidate]; !taken {
			a.used[candidate] = 1
			a.used[id] = n
			return candidate
		}
	}
}

func loadJSON(path string) ([]entities.ProviderRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var rows []jsonRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	kept := make([]entities.ProviderRecord, 0, len(rows))
	ids := newIDAllocator()
	for i, row := range rows {
		rec := row.ProviderRecord
		if strings.TrimSpace(rec.Governorate) == "" && strings.TrimSpace(rec.Name) == "" {
			continue
		}
		rec.ID = ids.next(scalarText(row.ID), i+1)
		rec.Phones = dedupePhones(rec.Phones)
		rec.Hotline = cleanHotline(scalarText(row.Hotline))
		rec.BuildSearchKeys()
		kept = append(kept, rec)
	}
	return kept, nil
}

// jsonRecord accepts exports where id and hotline were written as numbers
// or null instead of strings.
type jsonRecord struct {
	entities.ProviderRecord
	ID      json.RawMessage `json:"id"`
	Hotline json.RawMessage `json:"hotline"`
}

func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func dedupePhones(in []string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, raw := range in {
		for _, p := range utils.SplitPhones(raw) {
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				out = append(out, p)
			}
		}
	}
	return out
}
