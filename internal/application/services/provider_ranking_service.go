package services

import (
	"net/url"
	"sort"
	"strings"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	"github.com/zatekoja/medicalnetwork/pkg/utils"
)

const (
	defaultMaxResults = 25
	mapsSearchURL     = "https://www.google.com/maps/search/?api=1&query="
)

// RankingWeights are the additive score bonuses used by the ranker
type RankingWeights struct {
	Region            int
	Specialty         int
	SubSpecialtyBonus int
	NameSpecialty     int
	NameRegion        int
}

// DefaultRankingWeights returns the production scoring policy
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{
		Region:            60,
		Specialty:         30,
		SubSpecialtyBonus: 5,
		NameSpecialty:     5,
		NameRegion:        5,
	}
}

// ProviderRankingService scores directory records against a region and a specialty
type ProviderRankingService struct {
	weights    RankingWeights
	maxResults int
}

// NewProviderRankingService creates a ranker. A non-positive maxResults
// selects the default cap.
func NewProviderRankingService(weights RankingWeights, maxResults int) *ProviderRankingService {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &ProviderRankingService{weights: weights, maxResults: maxResults}
}

// Score computes the integer match score of one record. Records must carry
// their search keys.
func (s *ProviderRankingService) Score(record *entities.ProviderRecord, normRegion, normSpecialty string) int {
	score := 0
	if normRegion != "" {
		if strings.Contains(record.SearchableLocation, normRegion) {
			score += s.weights.Region
		}
		if strings.Contains(record.NormalizedName, normRegion) {
			score += s.weights.NameRegion
		}
	}
	if normSpecialty != "" {
		if strings.Contains(record.SpecialtyKey(), normSpecialty) {
			score += s.weights.Specialty
			if strings.Contains(record.NormalizedSub, normSpecialty) {
				score += s.weights.SubSpecialtyBonus
			}
		}
		if strings.Contains(record.NormalizedName, normSpecialty) {
			score += s.weights.NameSpecialty
		}
	}
	return score
}

// Rank returns the records matching region or specialty ordered by
// descending score. Ties keep snapshot order. Only the first entry is marked
// Best. An empty result is a valid "no matches" outcome.
func (s *ProviderRankingService) Rank(records []entities.ProviderRecord, region, specialty string) []entities.RankedProvider {
	normRegion := utils.NormalizeArabic(region)
	normSpecialty := utils.NormalizeArabic(specialty)

	ranked := make([]entities.RankedProvider, 0)
	if normRegion == "" && normSpecialty == "" {
		return ranked
	}

	for i := range records {
		score := s.Score(&records[i], normRegion, normSpecialty)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, entities.RankedProvider{
			ProviderRecord: records[i],
			Score:          score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > s.maxResults {
		ranked = ranked[:s.maxResults]
	}
	for i := range ranked {
		ranked[i].Best = i == 0
		ranked[i].MapsURL = MapsURL(ranked[i].Name, ranked[i].Address)
	}
	return ranked
}

// MapsURL builds a map search link for a provider
func MapsURL(name, address string) string {
	query := strings.TrimSpace(strings.TrimSpace(name) + " " + strings.TrimSpace(address))
	return mapsSearchURL + url.QueryEscape(query)
}
