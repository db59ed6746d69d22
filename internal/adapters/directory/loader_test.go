package directory

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	apperrors "github.com/zatekoja/medicalnetwork/pkg/errors"
)

var canonicalHeader = []string{"المحافظة", "النوع", "التخصص الفرعي", "الاسم", "العنوان", "تليفون 1", "تليفون 2", "الخط الساخن"}

var canonicalRows = [][]string{
	{"الجيزة", "باطنة", "جهاز هضمي", "عيادة د. أحمد", "شارع الهرم", "0233445566.0", "0", "19555.0"},
	{"", "", "", "", "", "", "", ""},
	{"المحافظة", "النوع", "التخصص الفرعي", "الاسم", "العنوان", "تليفون 1", "تليفون 2", "الخط الساخن"},
	{"القاهرة", "عظام", "nan", "مستشفى السلام", "مدينة نصر", "0222 / 0233", "0222", "0"},
}

func writeCSV(t *testing.T, header []string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(header))
	require.NoError(t, w.WriteAll(rows))
	return path
}

func writeXLSX(t *testing.T, header []string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	all := append([][]string{header}, rows...)
	for i, row := range all {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &cells))
	}

	path := filepath.Join(t.TempDir(), "network.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func stripKeys(records []entities.ProviderRecord) []entities.ProviderRecord {
	out := make([]entities.ProviderRecord, len(records))
	for i, r := range records {
		out[i] = entities.ProviderRecord{
			Governorate: r.Governorate, ProviderType: r.ProviderType, SpecialtySub: r.SpecialtySub,
			Name: r.Name, Address: r.Address, Phones: r.Phones, Hotline: r.Hotline,
		}
	}
	return out
}

func TestLoader_CSV(t *testing.T) {
	path := writeCSV(t, canonicalHeader, canonicalRows)

	records, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	giza := records[0]
	assert.Equal(t, "row-1", giza.ID)
	assert.Equal(t, "الجيزة", giza.Governorate)
	assert.Equal(t, "باطنة", giza.ProviderType)
	assert.Equal(t, []string{"0233445566"}, giza.Phones)
	assert.Equal(t, "19555", giza.Hotline)
	assert.Equal(t, "الجيزه شارع الهرم", giza.SearchableLocation)
	assert.Contains(t, giza.SearchableSpecialty, "باطنه")

	cairo := records[1]
	assert.Equal(t, "row-4", cairo.ID)
	assert.Empty(t, cairo.SpecialtySub)
	assert.Equal(t, []string{"0222", "0233"}, cairo.Phones)
	assert.Empty(t, cairo.Hotline)
}

func TestLoader_NeverKeepsZeroPhones(t *testing.T) {
	path := writeCSV(t, canonicalHeader, [][]string{
		{"الجيزة", "باطنة", "", "عيادة", "", "0", "0.0", ""},
	})

	records, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Phones)
	assert.NotNil(t, records[0].Phones)
}

func TestLoader_ReorderedColumnsYieldSameRecords(t *testing.T) {
	perm := []int{3, 7, 0, 5, 2, 4, 1, 6}
	reorder := func(row []string) []string {
		out := make([]string, len(row))
		for i, p := range perm {
			out[i] = row[p]
		}
		return out
	}
	rows := make([][]string, len(canonicalRows))
	for i, r := range canonicalRows {
		rows[i] = reorder(r)
	}

	loader := NewLoader()
	canonical, err := loader.Load(context.Background(), writeCSV(t, canonicalHeader, canonicalRows))
	require.NoError(t, err)
	reordered, err := loader.Load(context.Background(), writeCSV(t, reorder(canonicalHeader), rows))
	require.NoError(t, err)

	assert.Equal(t, stripKeys(canonical), stripKeys(reordered))
}

func TestLoader_XLSXMatchesCSV(t *testing.T) {
	loader := NewLoader()
	fromCSV, err := loader.Load(context.Background(), writeCSV(t, canonicalHeader, canonicalRows))
	require.NoError(t, err)
	fromXLSX, err := loader.Load(context.Background(), writeXLSX(t, canonicalHeader, canonicalRows))
	require.NoError(t, err)

	assert.Equal(t, stripKeys(fromCSV), stripKeys(fromXLSX))
}

func TestLoader_SourceIDsAndDuplicates(t *testing.T) {
	header := []string{"كود", "المحافظة", "الاسم"}
	rows := [][]string{
		{"7.0", "الجيزة", "أ"},
		{"7", "الجيزة", "ب"},
		{"", "الجيزة", "ج"},
	}
	table := &Table{Header: header, Rows: rows}

	records, stats := NewLoader().FromTable(table)

	require.Len(t, records, 3)
	assert.Equal(t, "7", records[0].ID)
	assert.Equal(t, "7-2", records[1].ID)
	assert.Equal(t, "row-3", records[2].ID)
	assert.Equal(t, StrategyByName, stats.Strategy)
}

func TestLoader_PositionalFallback(t *testing.T) {
	table := &Table{
		Header: []string{"a", "b", "c", "d", "e", "f", "g"},
		Rows: [][]string{
			{"الجيزة", "باطنة", "", "عيادة", "الهرم", "0100", "19000"},
			{"", "", "", "", "", "", ""},
		},
	}

	records, stats := NewLoader().FromTable(table)

	assert.Equal(t, StrategyPositional, stats.Strategy)
	assert.Equal(t, 1, stats.RowsDropped)
	require.Len(t, records, 1)
	assert.Equal(t, "عيادة", records[0].Name)
	assert.Equal(t, []string{"0100"}, records[0].Phones)
	assert.Equal(t, "19000", records[0].Hotline)
}

func TestLoader_SkipsTitleAboveHeader(t *testing.T) {
	rows := append([][]string{canonicalHeader}, canonicalRows...)
	path := writeCSV(t, []string{"دليل الشبكة الطبية 2024"}, rows)

	table, err := OpenTable(path)
	require.NoError(t, err)
	records, stats := NewLoader().FromTable(table)

	assert.Equal(t, StrategyByName, stats.Strategy)
	require.Len(t, records, 2)
	assert.Equal(t, "الجيزة", records[0].Governorate)
	assert.Equal(t, "عيادة د. أحمد", records[0].Name)
	assert.Equal(t, "القاهرة", records[1].Governorate)
	for _, r := range records {
		assert.NotEqual(t, "المحافظة", r.Governorate)
	}
}

func TestLoader_TenColumnLayout(t *testing.T) {
	header := []string{"م", "المحافظة", "المنطقة", "النوع", "التخصص الرئيسي", "التخصص الفرعي", "الاسم", "العنوان", "التليفونات", "الخط الساخن"}
	rows := [][]string{
		{"1", "الجيزة", "الدقي", "عيادة", "عظام", "", "د. علي", "شارع التحرير", "0233 / 0244", "19000.0"},
		{"2", "الجيزة", "الهرم", "عيادة", "باطنة", "جهاز هضمي", "د. سامي", "شارع الهرم", "0255", ""},
	}

	records, err := NewLoader().Load(context.Background(), writeCSV(t, header, rows))
	require.NoError(t, err)
	require.Len(t, records, 2)

	ali, sami := records[0], records[1]
	assert.Equal(t, "1", ali.ID)
	assert.Equal(t, "الدقي", ali.Area)
	assert.Equal(t, "عيادة", ali.ProviderType)
	assert.Equal(t, "عظام", ali.SpecialtyMain)
	assert.Equal(t, "د. علي", ali.Name)
	assert.Equal(t, []string{"0233", "0244"}, ali.Phones)
	assert.Equal(t, "19000", ali.Hotline)

	assert.Equal(t, "باطنة", sami.SpecialtyMain)
	assert.Equal(t, "جهاز هضمي", sami.SpecialtySub)
	assert.Contains(t, sami.SpecialtyKey(), "باطنه")
	assert.Contains(t, sami.SearchableSpecialty, "باطنه")
	assert.NotContains(t, ali.SpecialtyKey(), "باطنه")
}

func TestLoader_MissingSource(t *testing.T) {
	records, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))

	assert.Nil(t, records)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSourceUnavailable))
}

func TestLoader_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := NewLoader().Load(context.Background(), path)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSourceUnavailable))
}

func TestLoader_JSONExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network_data.json")
	data := `[
		{"id": 1.0, "governorate": "الجيزة", "type": "باطنة", "name": "عيادة", "address": "الهرم", "phones": ["0100/0101", "0100"], "hotline": null},
		{"id": "2", "governorate": "", "name": ""},
		{"id": "3", "governorate": "القاهرة", "name": "معمل", "phones": [], "hotline": 19001.0}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	records, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, []string{"0100", "0101"}, records[0].Phones)
	assert.Empty(t, records[0].Hotline)
	assert.Equal(t, "الجيزه الهرم", records[0].SearchableLocation)

	assert.Equal(t, "3", records[1].ID)
	assert.Equal(t, "19001", records[1].Hotline)
}

func TestLoader_JSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	records, err := NewLoader().Load(context.Background(), path)
	assert.Nil(t, records)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSourceUnavailable))
}
