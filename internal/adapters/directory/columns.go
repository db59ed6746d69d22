package directory

import (
	"strings"
	"unicode/utf8"

	"github.com/zatekoja/medicalnetwork/pkg/utils"
)

// Field is a logical column of the directory
type Field string

const (
	FieldID            Field = "id"
	FieldRegion        Field = "governorate"
	FieldArea          Field = "area"
	FieldType          Field = "type"
	FieldSpecialtyMain Field = "specialty_main"
	FieldSpecialtySub  Field = "specialty_sub"
	FieldName          Field = "name"
	FieldAddress       Field = "address"
	FieldPhone         Field = "phone"
	FieldHotline       Field = "hotline"
)

// FieldAliases lists the header spellings recognised for a field. Contains
// aliases match anywhere inside a header; Exact aliases must equal the whole
// header, which keeps one and two letter abbreviations from matching inside
// unrelated words.
type FieldAliases struct {
	Field    Field
	Contains []string
	Exact    []string
}

// DefaultFieldAliases is resolved top to bottom and each header is claimed by
// the first field that matches it. More specific fields therefore come
// first: the sub-specialty before the main specialty ("التخصص الفرعي"
// contains "تخصص"), the hotline before phones, the provider type before the
// name ("نوع مقدم الخدمة" contains "مقدم الخدمة").
var DefaultFieldAliases = []FieldAliases{
	{Field: FieldHotline, Contains: []string{"خط ساخن", "الساخن", "hotline", "hot line"}},
	{Field: FieldSpecialtySub, Contains: []string{"فرعي", "دقيق", "subspecialty", "sub"}},
	{Field: FieldSpecialtyMain, Contains: []string{"رئيسي", "تخصص", "specialty", "speciality", "main"}},
	{Field: FieldType, Contains: []string{"نوع", "فئه", "تصنيف", "type", "category"}},
	{Field: FieldID, Contains: []string{"كود", "مسلسل", "serial"}, Exact: []string{"id", "م", "رقم", "code", "no"}},
	{Field: FieldRegion, Contains: []string{"محافظه", "governorate", "region", "مدينه", "city"}},
	{Field: FieldArea, Contains: []string{"منطقه", "district", "area"}, Exact: []string{"حي", "الحي"}},
	{Field: FieldName, Contains: []string{"اسم", "مقدم الخدمه", "الجهه", "name", "provider"}},
	{Field: FieldAddress, Contains: []string{"عنوان", "address"}},
	{Field: FieldPhone, Contains: []string{"تليفون", "تلفون", "هاتف", "موبايل", "محمول", "جوال", "phone", "mobile", "tel"}, Exact: []string{"ت"}},
}

// Strategy names how a header was mapped to fields
type Strategy string

const (
	StrategyByName     Strategy = "by_name"
	StrategyPositional Strategy = "positional"
)

// ColumnMap is the resolved field to column index table. Missing fields map
// to -1. Phones holds every phone column in header order.
type ColumnMap struct {
	Strategy Strategy
	Index    map[Field]int
	Phones   []int
}

// Col returns the column index of f, or -1
func (m ColumnMap) Col(f Field) int {
	if i, ok := m.Index[f]; ok {
		return i
	}
	return -1
}

type normalizedAliases struct {
	field    Field
	contains []string
	exact    []string
}

func normalizeAliases(table []FieldAliases) []normalizedAliases {
	out := make([]normalizedAliases, 0, len(table))
	for _, fa := range table {
		na := normalizedAliases{field: fa.Field}
		for _, a := range fa.Contains {
			if n := utils.NormalizeArabic(a); n != "" {
				na.contains = append(na.contains, n)
			}
		}
		for _, a := range fa.Exact {
			if n := utils.NormalizeArabic(a); n != "" {
				na.exact = append(na.exact, n)
			}
		}
		out = append(out, na)
	}
	return out
}

func (na normalizedAliases) matches(header string) bool {
	if header == "" {
		return false
	}
	for _, a := range na.exact {
		if header == a {
			return true
		}
	}
	for _, a := range na.contains {
		if isShortLatin(a) {
			if hasWord(header, a) {
				return true
			}
			continue
		}
		if strings.Contains(header, a) {
			return true
		}
	}
	return false
}

// Short latin aliases such as "tel" or "sub" only match a whole word so
// that "hotel" is not taken for a phone column.
func isShortLatin(alias string) bool {
	return utf8.RuneCountInString(alias) <= 3 && alias[0] < utf8.RuneSelf
}

func hasWord(header, word string) bool {
	for _, tok := range strings.Fields(header) {
		if tok == word {
			return true
		}
	}
	return false
}

// MapColumns resolves header to a ColumnMap by name, falling back to the
// fixed column order when region or name cannot be found.
func MapColumns(header []string, aliases []FieldAliases) ColumnMap {
	return resolveColumns(header, normalizeAliases(aliases))
}

func resolveColumns(header []string, aliases []normalizedAliases) ColumnMap {
	if m := mapByName(header, aliases); m.resolved() {
		return m
	}
	return mapPositional(len(header))
}

// resolved reports whether the fields needed to keep a row were found
func (m ColumnMap) resolved() bool {
	return m.Col(FieldRegion) >= 0 && m.Col(FieldName) >= 0
}

// headerScanRows bounds how many rows below the first non-blank row are
// tried as the header.
const headerScanRows = 10

// locateHeader returns the header and data rows of table. Title lines above
// the header are skipped: the first leading row whose cells name both the
// region and the provider is the header. When no row qualifies the first
// non-blank row is kept and columns are mapped by position.
func locateHeader(table *Table, aliases []normalizedAliases) ([]string, [][]string) {
	if mapByName(table.Header, aliases).resolved() {
		return table.Header, table.Rows
	}
	for i := 0; i < len(table.Rows) && i < headerScanRows; i++ {
		if mapByName(table.Rows[i], aliases).resolved() {
			return cleanHeader(table.Rows[i]), table.Rows[i+1:]
		}
	}
	return table.Header, table.Rows
}

func mapByName(header []string, aliases []normalizedAliases) ColumnMap {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = utils.NormalizeArabic(h)
	}

	m := ColumnMap{Strategy: StrategyByName, Index: make(map[Field]int)}
	claimed := make([]bool, len(header))

	for _, na := range aliases {
		for i, h := range normalized {
			if claimed[i] || !na.matches(h) {
				continue
			}
			claimed[i] = true
			if na.field == FieldPhone {
				m.Phones = append(m.Phones, i)
				continue
			}
			m.Index[na.field] = i
			break
		}
	}
	return m
}

// mapPositional assumes region, type, sub-specialty, name, address, then
// phones. With more than six columns the last one is the hotline.
func mapPositional(width int) ColumnMap {
	m := ColumnMap{Strategy: StrategyPositional, Index: make(map[Field]int)}
	order := []Field{FieldRegion, FieldType, FieldSpecialtySub, FieldName, FieldAddress}
	for i, f := range order {
		if i < width {
			m.Index[f] = i
		}
	}

	lastPhone := width - 1
	if width > 6 {
		m.Index[FieldHotline] = width - 1
		lastPhone = width - 2
	}
	for i := len(order); i <= lastPhone; i++ {
		m.Phones = append(m.Phones, i)
	}
	return m
}
