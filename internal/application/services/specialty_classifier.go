package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	"github.com/zatekoja/medicalnetwork/internal/domain/providers"
	"github.com/zatekoja/medicalnetwork/pkg/llmjson"
	"github.com/zatekoja/medicalnetwork/pkg/utils"
)

const (
	defaultClassifierMemoSize = 1024
	classifierCachePrefix     = "classify:"
)

// ClassifierOptions configures a SpecialtyClassifier. Zero values select the
// default tables.
type ClassifierOptions struct {
	EmergencyPhrases []string
	Lexicon          []SpecialtyKeyword
	MemoSize         int
	// Cache mirrors memoized results so peer instances can reuse them
	Cache        providers.CacheProvider
	CacheTTLSecs int
}

type normalizedKeyword struct {
	keyword   string
	specialty string
}

// SpecialtyClassifier maps symptom text to a specialty. It never returns an
// error and never recommends a pharmacy.
type SpecialtyClassifier struct {
	emergency []string
	lexicon   []normalizedKeyword
	generator providers.TextGenerator
	memo      *lru.Cache[string, entities.ClassificationResult]
	cache     providers.CacheProvider
	cacheTTL  int
}

// NewSpecialtyClassifier creates a classifier. generator may be nil, in which
// case results come from the lexicon and the advice table only.
func NewSpecialtyClassifier(generator providers.TextGenerator, opts ClassifierOptions) *SpecialtyClassifier {
	phrases := opts.EmergencyPhrases
	if phrases == nil {
		phrases = DefaultEmergencyPhrases
	}
	lexicon := opts.Lexicon
	if lexicon == nil {
		lexicon = DefaultSpecialtyLexicon
	}
	size := opts.MemoSize
	if size <= 0 {
		size = defaultClassifierMemoSize
	}

	c := &SpecialtyClassifier{
		generator: generator,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTLSecs,
	}
	for _, p := range phrases {
		if n := utils.NormalizeArabic(p); n != "" {
			c.emergency = append(c.emergency, n)
		}
	}
	for _, k := range lexicon {
		if n := utils.NormalizeArabic(k.Keyword); n != "" {
			c.lexicon = append(c.lexicon, normalizedKeyword{keyword: n, specialty: k.Specialty})
		}
	}
	// lru.New only fails for a non-positive size
	c.memo, _ = lru.New[string, entities.ClassificationResult](size)
	return c
}

// Classify recommends a specialty for symptoms. available lists the
// specialties present in the directory and is passed to the generator.
func (c *SpecialtyClassifier) Classify(ctx context.Context, symptoms string, available []string) entities.ClassificationResult {
	key := memoKey(symptoms, available)
	if cached, ok := c.lookup(ctx, key); ok {
		return cached
	}

	result, cacheable := c.classify(ctx, symptoms, available)
	if cacheable {
		c.store(ctx, key, result)
	}
	return result
}

func (c *SpecialtyClassifier) classify(ctx context.Context, symptoms string, available []string) (entities.ClassificationResult, bool) {
	normalized := utils.NormalizeArabic(symptoms)

	if c.isEmergency(normalized) {
		return entities.ClassificationResult{
			RecommendedSpecialty: SpecialtyEmergency,
			Explanation:          "الأعراض المذكورة قد تشير إلى حالة طارئة تستدعي التوجه فوراً إلى قسم الطوارئ بأقرب مستشفى.",
			TemporaryAdvice:      append([]string(nil), emergencyAdvice...),
			IsEmergency:          true,
			Source:               entities.ClassificationSourceEmergency,
		}, true
	}

	preliminary, source := c.lookupLexicon(normalized)
	preliminary = matchAvailable(preliminary, available)
	fallback := entities.ClassificationResult{
		RecommendedSpecialty: preliminary,
		Explanation:          fmt.Sprintf("بناءً على الأعراض المذكورة نرشح لك مراجعة تخصص %s.", preliminary),
		TemporaryAdvice:      adviceFor(canonicalSpecialty(preliminary)),
		Source:               source,
	}

	if c.generator == nil {
		return fallback, true
	}

	refined, err := c.refine(ctx, symptoms, preliminary, available)
	if err != nil {
		log.Warn().Err(err).Str("preliminary", preliminary).Msg("Specialty refinement failed, using lexicon result")
		return fallback, false
	}
	return refined, true
}

func (c *SpecialtyClassifier) isEmergency(normalized string) bool {
	for _, phrase := range c.emergency {
		if utils.ContainsPhrase(normalized, phrase) {
			return true
		}
	}
	return false
}

func (c *SpecialtyClassifier) lookupLexicon(normalized string) (string, entities.ClassificationSource) {
	for _, k := range c.lexicon {
		if utils.ContainsPhrase(normalized, k.keyword) {
			return k.specialty, entities.ClassificationSourceLexicon
		}
	}
	return SpecialtyInternalMedicine, entities.ClassificationSourceDefault
}

type refinementPayload struct {
	RecommendedSpecialty string   `json:"recommended_specialty"`
	Explanation          string   `json:"explanation"`
	TemporaryAdvice      []string `json:"temporary_advice"`
	Recommendations      []struct {
		ID     string `json:"id"`
		Reason string `json:"reason"`
	} `json:"recommendations"`
}

func (c *SpecialtyClassifier) refine(ctx context.Context, symptoms, preliminary string, available []string) (result entities.ClassificationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refinement panicked: %v", r)
		}
	}()

	text, err := c.generator.Generate(ctx, buildClassificationPrompt(symptoms, preliminary, available), nil)
	if err != nil {
		return result, err
	}

	var payload refinementPayload
	if err := llmjson.Decode(text, &payload); err != nil {
		return result, fmt.Errorf("invalid refinement payload: %w", err)
	}

	specialty := strings.TrimSpace(payload.RecommendedSpecialty)
	explanation := strings.TrimSpace(payload.Explanation)
	if specialty == "" && len(payload.Recommendations) > 0 {
		specialty = strings.TrimSpace(payload.Recommendations[0].ID)
		if explanation == "" {
			explanation = strings.TrimSpace(payload.Recommendations[0].Reason)
		}
	}
	if specialty == "" {
		return result, fmt.Errorf("refinement returned no specialty")
	}

	if IsPharmacy(specialty) {
		log.Info().Str("suggested", specialty).Str("preliminary", preliminary).Msg("Refusing pharmacy recommendation")
		specialty = preliminary
		explanation = fmt.Sprintf("بناءً على الأعراض المذكورة نرشح لك مراجعة تخصص %s.", preliminary)
	}

	advice := cleanAdvice(payload.TemporaryAdvice)
	if len(advice) == 0 {
		advice = adviceFor(canonicalSpecialty(specialty))
	}

	return entities.ClassificationResult{
		RecommendedSpecialty: specialty,
		Explanation:          explanation,
		TemporaryAdvice:      advice,
		Source:               entities.ClassificationSourceRefined,
	}, nil
}

// IsPharmacy reports whether a specialty label names a pharmacy or retail
// outlet, which symptom classification must never recommend.
func IsPharmacy(specialty string) bool {
	n := utils.NormalizeArabic(specialty)
	return strings.Contains(n, "صيدل") || strings.Contains(n, "pharmac") || strings.Contains(n, "drugstore")
}

// matchAvailable prefers the directory's own spelling of a lexicon label
func matchAvailable(label string, available []string) string {
	want := utils.NormalizeArabic(label)
	for _, a := range available {
		if utils.NormalizeArabic(a) == want {
			return a
		}
	}
	return label
}

// canonicalSpecialty maps a directory spelling back to the advice table key
func canonicalSpecialty(label string) string {
	want := utils.NormalizeArabic(label)
	for key := range specialtyAdvice {
		if utils.NormalizeArabic(key) == want {
			return key
		}
	}
	return label
}

func cleanAdvice(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func memoKey(symptoms string, available []string) string {
	sorted := slices.Clone(available)
	slices.Sort(sorted)
	return symptoms + "\x00" + strings.Join(sorted, "\x1f")
}

func (c *SpecialtyClassifier) lookup(ctx context.Context, key string) (entities.ClassificationResult, bool) {
	if result, ok := c.memo.Get(key); ok {
		return result, true
	}
	if c.cache == nil {
		return entities.ClassificationResult{}, false
	}

	data, err := c.cache.Get(ctx, sharedCacheKey(key))
	if err != nil {
		return entities.ClassificationResult{}, false
	}
	var result entities.ClassificationResult
	if err := json.Unmarshal(data, &result); err != nil || IsPharmacy(result.RecommendedSpecialty) {
		return entities.ClassificationResult{}, false
	}
	c.memo.Add(key, result)
	return result, true
}

func (c *SpecialtyClassifier) store(ctx context.Context, key string, result entities.ClassificationResult) {
	c.memo.Add(key, result)
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, sharedCacheKey(key), data, c.cacheTTL); err != nil {
		log.Debug().Err(err).Msg("Failed to mirror classification to cache")
	}
}

func sharedCacheKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return classifierCachePrefix + hex.EncodeToString(sum[:])
}
