package entities

import (
	"strings"

	"github.com/zatekoja/medicalnetwork/pkg/utils"
)

// ProviderRecord is one row of the medical network directory
type ProviderRecord struct {
	ID            string   `json:"id"`
	Governorate   string   `json:"governorate"`
	Area          string   `json:"area,omitempty"`
	ProviderType  string   `json:"type"`
	SpecialtyMain string   `json:"specialty_main,omitempty"`
	SpecialtySub  string   `json:"specialty_sub,omitempty"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Phones        []string `json:"phones"`
	Hotline       string   `json:"hotline,omitempty"`

	// Normalized search keys, filled once by BuildSearchKeys when the
	// snapshot is loaded and never modified afterwards.
	SearchableLocation  string `json:"-"`
	SearchableSpecialty string `json:"-"`
	NormalizedName      string `json:"-"`
	NormalizedType      string `json:"-"`
	NormalizedMain      string `json:"-"`
	NormalizedSub       string `json:"-"`
	NormalizedRegion    string `json:"-"`
}

// BuildSearchKeys computes the normalized search keys from the display fields
func (r *ProviderRecord) BuildSearchKeys() {
	r.NormalizedRegion = utils.NormalizeArabic(r.Governorate)
	r.NormalizedName = utils.NormalizeArabic(r.Name)
	r.NormalizedType = utils.NormalizeArabic(r.ProviderType)
	r.NormalizedMain = utils.NormalizeArabic(r.SpecialtyMain)
	r.NormalizedSub = utils.NormalizeArabic(r.SpecialtySub)
	r.SearchableLocation = utils.NormalizeArabic(joinNonEmpty(r.Governorate, r.Area, r.Address))
	r.SearchableSpecialty = utils.NormalizeArabic(joinNonEmpty(r.ProviderType, r.SpecialtyMain, r.SpecialtySub, r.Name))
}

// SpecialtyKey is the normalized provider type, main specialty and
// sub-specialty joined by spaces
func (r *ProviderRecord) SpecialtyKey() string {
	return joinNonEmpty(r.NormalizedType, r.NormalizedMain, r.NormalizedSub)
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// RankedProvider is a ProviderRecord annotated by the ranker
type RankedProvider struct {
	ProviderRecord
	Score   int    `json:"score"`
	Best    bool   `json:"best"`
	MapsURL string `json:"maps_url"`
}
