package services

import (
	"strings"
	"unicode/utf8"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	"github.com/zatekoja/medicalnetwork/pkg/utils"
)

// LocationSynonym maps a colloquial place name to its governorate
type LocationSynonym struct {
	Key    string
	Region string
}

// DefaultLocationSynonyms is matched in order and the first key found in
// the input wins, so a longer name must precede any shorter name it
// contains ("شبرا الخيمة" before "شبرا"). Keys match at word starts; keys of
// shortWordKeyRunes runes or fewer must match a whole word.
var DefaultLocationSynonyms = []LocationSynonym{
	// Giza
	{"الطالبية", "الجيزة"}, {"الهرم", "الجيزة"}, {"هرم", "الجيزة"}, {"فيصل", "الجيزة"},
	{"الدقي", "الجيزة"}, {"المهندسين", "الجيزة"}, {"العجوزة", "الجيزة"}, {"إمبابة", "الجيزة"},
	{"بولاق الدكرور", "الجيزة"}, {"أكتوبر", "الجيزة"}, {"الشيخ زايد", "الجيزة"}, {"حدائق الأهرام", "الجيزة"},
	{"الحوامدية", "الجيزة"}, {"البدرشين", "الجيزة"}, {"العمرانية", "الجيزة"}, {"giza", "الجيزة"},

	// Qalyubia, listed before Cairo because of Shubra
	{"شبرا الخيمة", "القليوبية"}, {"بنها", "القليوبية"}, {"قليوب", "القليوبية"}, {"العبور", "القليوبية"},
	{"الخانكة", "القليوبية"}, {"القناطر", "القليوبية"},

	// Cairo
	{"مدينة نصر", "القاهرة"}, {"المعادي", "القاهرة"}, {"مصر الجديدة", "القاهرة"}, {"شبرا", "القاهرة"},
	{"حلوان", "القاهرة"}, {"التجمع", "القاهرة"}, {"القاهرة الجديدة", "القاهرة"}, {"وسط البلد", "القاهرة"},
	{"عين شمس", "القاهرة"}, {"المطرية", "القاهرة"}, {"الزيتون", "القاهرة"}, {"المقطم", "القاهرة"},
	{"السيدة زينب", "القاهرة"}, {"الزمالك", "القاهرة"}, {"العباسية", "القاهرة"}, {"الرحاب", "القاهرة"},
	{"مدينتي", "القاهرة"}, {"الشروق", "القاهرة"}, {"المرج", "القاهرة"}, {"cairo", "القاهرة"},

	// Alexandria
	{"اسكندرية", "الإسكندرية"}, {"سيدي جابر", "الإسكندرية"}, {"سموحة", "الإسكندرية"}, {"العجمي", "الإسكندرية"},
	{"المنتزه", "الإسكندرية"}, {"محرم بك", "الإسكندرية"}, {"ميامي", "الإسكندرية"}, {"alexandria", "الإسكندرية"},

	// Delta and canal
	{"المنصورة", "الدقهلية"}, {"طنطا", "الغربية"}, {"المحلة", "الغربية"}, {"الزقازيق", "الشرقية"},
	{"العاشر من رمضان", "الشرقية"}, {"شبين الكوم", "المنوفية"}, {"دمنهور", "البحيرة"},
	{"بور سعيد", "بورسعيد"}, {"الإسماعيلية", "الإسماعيلية"}, {"السويس", "السويس"},

	// Upper Egypt and the coasts
	{"الغردقة", "البحر الأحمر"}, {"مرسى مطروح", "مطروح"}, {"العريش", "شمال سيناء"},
	{"شرم الشيخ", "جنوب سيناء"}, {"الأقصر", "الأقصر"}, {"luxor", "الأقصر"}, {"أسوان", "أسوان"},
	{"بني سويف", "بني سويف"}, {"الفيوم", "الفيوم"}, {"المنيا", "المنيا"}, {"أسيوط", "أسيوط"},
	{"سوهاج", "سوهاج"}, {"قنا", "قنا"},
}

// minSharedTokenRunes keeps short tokens such as "6" or "ال" from matching
// a governorate on their own.
const minSharedTokenRunes = 3

// shortWordKeyRunes is the longest synonym key that is matched as a whole
// word only ("قنا" must not match "القناطر").
const shortWordKeyRunes = 3

type normalizedSynonym struct {
	key       string
	region    string
	wholeWord bool
}

func (s normalizedSynonym) foundIn(input string) bool {
	if s.wholeWord {
		return utils.ContainsWord(input, s.key)
	}
	return utils.ContainsPhrase(input, s.key)
}

// LocationResolver maps free-text location phrases to governorate names
type LocationResolver struct {
	synonyms []normalizedSynonym
}

// NewLocationResolver normalizes the synonym table once
func NewLocationResolver(synonyms []LocationSynonym) *LocationResolver {
	r := &LocationResolver{synonyms: make([]normalizedSynonym, 0, len(synonyms))}
	for _, s := range synonyms {
		if key := utils.NormalizeArabic(s.Key); key != "" {
			r.synonyms = append(r.synonyms, normalizedSynonym{
				key:       key,
				region:    s.Region,
				wholeWord: utf8.RuneCountInString(key) <= shortWordKeyRunes,
			})
		}
	}
	return r
}

// Resolve returns the governorate text refers to. The synonym table is
// consulted first; otherwise the longest governorate from records that
// appears in the input, or shares a word with it, wins. When nothing
// matches the trimmed input is returned unchanged.
func (r *LocationResolver) Resolve(text string, records []entities.ProviderRecord) string {
	input := utils.NormalizeArabic(text)
	if input == "" {
		return strings.TrimSpace(text)
	}

	for _, s := range r.synonyms {
		if s.foundIn(input) {
			return s.region
		}
	}

	inputTokens := strings.Fields(input)
	best, bestLen := "", 0
	for _, region := range DistinctRegions(records) {
		norm := utils.NormalizeArabic(region)
		if !strings.Contains(input, norm) && !sharesToken(inputTokens, norm) {
			continue
		}
		if n := utf8.RuneCountInString(norm); n > bestLen {
			best, bestLen = region, n
		}
	}
	if best != "" {
		return best
	}

	return strings.TrimSpace(text)
}

func sharesToken(inputTokens []string, region string) bool {
	for _, rt := range strings.Fields(region) {
		if utf8.RuneCountInString(rt) < minSharedTokenRunes {
			continue
		}
		for _, it := range inputTokens {
			if it == rt {
				return true
			}
		}
	}
	return false
}
