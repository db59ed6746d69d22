package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const excelExport = `<html><head><meta http-equiv=Content-Type content="text/html; charset=windows-1256"></head>
<body><table border=0>
<tr><td>كود</td><td>المحافظة</td><td>النوع</td><td>الاسم</td><td>العنوان</td><td>التليفونات</td></tr>
<tr><td>1</td><td>الجيزة</td><td>باطنة</td><td>عيادة&nbsp;النور</td><td>الهرم<br>الدور الثاني</td><td>0233 / 0100</td></tr>
<tr><td colspan=6>&nbsp;</td></tr>
<tr><td>2</td><td>القاهرة</td><td><table><tr><td>nested</td></tr></table>عظام</td><td>مركز</td><td>المعادي</td><td>0.0</td></tr>
</table></body></html>`

func TestReadHTML_Windows1256(t *testing.T) {
	encoded, err := charmap.Windows1256.NewEncoder().String(excelExport)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sheet001.htm")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0o644))

	table, err := ReadHTML(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"كود", "المحافظة", "النوع", "الاسم", "العنوان", "التليفونات"}, table.Header)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "الجيزة", table.Rows[0][1])
	assert.Equal(t, "الهرم\nالدور الثاني", table.Rows[0][4])
	assert.Len(t, table.Rows[1], 6)
	assert.Equal(t, "nestedعظام", table.Rows[2][2])
}

func TestReadHTML_UTF8LoadsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet001.html")
	require.NoError(t, os.WriteFile(path, []byte(excelExport), 0o644))

	table, err := OpenTable(path)
	require.NoError(t, err)

	records, stats := NewLoader().FromTable(table)
	require.Len(t, records, 2)
	assert.Equal(t, 1, stats.RowsDropped)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "عيادة النور", records[0].Name)
	assert.Equal(t, []string{"0233", "0100"}, records[0].Phones)
	assert.Empty(t, records[1].Phones)
}

func TestParseHTMLTable_NoTable(t *testing.T) {
	_, err := parseHTMLTable([]byte("<html><body><p>empty</p></body></html>"))
	assert.Error(t, err)
}
