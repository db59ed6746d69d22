package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeArabic(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \t\n ", ""},
		{"shadda stripped", "مصدّع", "مصدع"},
		{"tanween and fatha stripped", "صُداعٌ", "صداع"},
		{"hamza alef folded", "أسنان", "اسنان"},
		{"alef below folded", "إسكندرية", "اسكندريه"},
		{"madda folded", "آلام", "الام"},
		{"alef maksura folded", "مستشفى", "مستشفي"},
		{"ta marbuta folded", "الجيزة", "الجيزه"},
		{"waw hamza folded", "مؤسسة", "موسسه"},
		{"ya hamza folded", "طوارئ", "طواري"},
		{"tatweel removed", "باطـــنة", "باطنه"},
		{"punctuation becomes space", "القاهرة،مدينة نصر!", "القاهره مدينه نصر"},
		{"whitespace collapsed", "  شارع   الهرم \t ", "شارع الهرم"},
		{"ascii lower-cased", "ENT Clinic-2", "ent clinic 2"},
		{"arabic-indic digits", "عيادة ١٢٣", "عياده 123"},
		{"latin accents dropped", "Café", "cafe"},
		{"non-arabic script removed", "клиника طب", "طب"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeArabic(tc.input))
		})
	}
}

func TestNormalizeArabic_DiacriticVariantsCompareEqual(t *testing.T) {
	assert.Equal(t, NormalizeArabic("مصدع"), NormalizeArabic("مصدّع"))
	assert.Equal(t, NormalizeArabic("الطالبية"), NormalizeArabic("الطالبيه"))
	assert.Equal(t, NormalizeArabic("أسيوط"), NormalizeArabic("اسيوط"))
}

func TestNormalizeArabic_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"مصدّع",
		"  القاهرة - مدينة نصر / عباس العقاد ",
		"مستشفى الشفاء التخصصي (فرع ٢)",
		"ENT & Dental Clinic",
		"ﻻ إله",
		"ٱلرَّحْمَٰن",
		"باطنـــة   وجهاز هضمي",
		"‏الجيزة‎",
	}

	for _, in := range inputs {
		once := NormalizeArabic(in)
		assert.Equal(t, once, NormalizeArabic(once), "input %q", in)
	}
}

func TestContainsNormalized(t *testing.T) {
	haystack := NormalizeArabic("مستشفى السلام الدولي - المعادي")

	assert.True(t, ContainsNormalized(haystack, "السلام"))
	assert.True(t, ContainsNormalized(haystack, "مستشفي"))
	assert.False(t, ContainsNormalized(haystack, "الجيزة"))
	assert.False(t, ContainsNormalized(haystack, "  "))
}

func BenchmarkNormalizeArabic(b *testing.B) {
	inputs := []string{
		"مستشفى الشفاء التخصصي",
		"شارع الهرم - الطالبية - الجيزة",
		"باطنة وجهاز هضمي وكبد",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NormalizeArabic(inputs[i%len(inputs)])
	}
}
