package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
)

func regionRecords(regions ...string) []entities.ProviderRecord {
	records := make([]entities.ProviderRecord, 0, len(regions))
	for _, region := range regions {
		r := entities.ProviderRecord{Governorate: region}
		r.BuildSearchKeys()
		records = append(records, r)
	}
	return records
}

func TestResolve_Synonyms(t *testing.T) {
	resolver := NewLocationResolver(DefaultLocationSynonyms)
	records := regionRecords("الجيزة", "القاهرة")

	tests := []struct {
		input string
		want  string
	}{
		{"الطالبية هرم", "الجيزة"},
		{"  فيصل  ", "الجيزة"},
		{"شبرا الخيمة", "القليوبية"},
		{"شبرا مصر", "القاهرة"},
		{"مدينة نصر الحي السابع", "القاهرة"},
		{"اسكندريه سموحه", "الإسكندرية"},
		{"Giza", "الجيزة"},
		{"القناطر الخيرية", "القليوبية"},
		{"محافظة قنا", "قنا"},
		{"شارع الهرم", "الجيزة"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.Resolve(tt.input, records))
		})
	}
}

func TestResolve_ShortKeyNeedsWholeWord(t *testing.T) {
	resolver := NewLocationResolver([]LocationSynonym{{Key: "قنا", Region: "قنا"}})

	assert.Equal(t, "القناطر", resolver.Resolve("القناطر", nil))
	assert.Equal(t, "قنا", resolver.Resolve("مدينة قنا", nil))
	assert.Equal(t, "قنا", resolver.Resolve("بقنا", nil))
}

func TestResolve_TableOrderWins(t *testing.T) {
	resolver := NewLocationResolver([]LocationSynonym{
		{Key: "نصر", Region: "أ"},
		{Key: "مدينة نصر", Region: "ب"},
	})
	assert.Equal(t, "أ", resolver.Resolve("مدينة نصر", nil))
}

func TestResolve_FromRecordsLongestWins(t *testing.T) {
	resolver := NewLocationResolver(nil)
	records := regionRecords("سيناء", "جنوب سيناء", "سيناء")

	assert.Equal(t, "جنوب سيناء", resolver.Resolve("فندق في جنوب سيناء", records))
	assert.Equal(t, "جنوب سيناء", resolver.Resolve("سيناء", records), "shared word still prefers the longer region")
}

func TestResolve_SharedToken(t *testing.T) {
	resolver := NewLocationResolver(nil)
	records := regionRecords("البحر الأحمر", "مطروح")

	assert.Equal(t, "البحر الأحمر", resolver.Resolve("الاحمر", records))
	assert.Equal(t, "passthrough ال", resolver.Resolve(" passthrough ال ", regionRecords("ال مطروح")))
}

func TestResolve_NormalizesRegionSpelling(t *testing.T) {
	resolver := NewLocationResolver(nil)
	records := regionRecords("الإسماعيلية")

	assert.Equal(t, "الإسماعيلية", resolver.Resolve("الاسماعيليه", records))
}

func TestResolve_Passthrough(t *testing.T) {
	resolver := NewLocationResolver(DefaultLocationSynonyms)

	assert.Equal(t, "Springfield", resolver.Resolve("  Springfield ", regionRecords("الجيزة")))
	assert.Equal(t, "", resolver.Resolve("   ", nil))
}
