package dataprocessing

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/internal/errors"
	"salesreport/internal/shared/testutil"
)

func TestSourceName(t *testing.T) {
	tests := map[string]string{
		"/data/raw/online_retail.csv":       "online_retail",
		"online_retail_II.xlsx":             "online_retail_II",
		"ecommerce_data.csv":                "ecommerce_data",
		"archive.2011.retail.csv":           "archive",
		filepath.Join("x", "no_extension"):  "no_extension",
	}
	for path, want := range tests {
		assert.Equal(t, want, SourceName(path), path)
	}
}

func TestSourceNames(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{
			name:  "distinct stems",
			paths: []string{"/raw/online_retail.csv", "/raw/ecommerce_data.csv"},
			want:  []string{"online_retail", "ecommerce_data"},
		},
		{
			name:  "shared stem",
			paths: []string{"/raw/online_retail.csv", "/raw/online_retail.xlsx", "/raw/ecommerce_data.csv"},
			want:  []string{"online_retail_csv", "online_retail_xlsx", "ecommerce_data"},
		},
		{
			name:  "shared stem with inner dots",
			paths: []string{"/raw/sales.2010.csv", "/raw/sales.2011.csv"},
			want:  []string{"sales_2010_csv", "sales_2011_csv"},
		},
		{
			name:  "renamed source meets a stem",
			paths: []string{"/raw/retail.csv", "/raw/retail.xlsx", "/raw/retail_csv.csv"},
			want:  []string{"retail_csv", "retail_xlsx", "retail_csv_2"},
		},
		{
			name:  "empty",
			paths: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceNames(tt.paths))
		})
	}
}

func TestReader_ReadCSV(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "online_retail.csv", testutil.OnlineRetailCSV)

	table, err := NewReader(discardLogger()).ReadTable(path, "", DefaultReadOptions())
	require.NoError(t, err)

	assert.Equal(t, "online_retail", table.Source)
	assert.Equal(t, path, table.Path)
	assert.Equal(t, retailColumns, table.Columns)
	assert.Len(t, table.Rows, 7)
	assert.Equal(t, "536365", table.Rows[0][0])
	assert.Equal(t, 0, table.SkippedLines)
}

func TestReader_Latin1(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteLatin1CSV(t, dir, "latin_retail.csv", "InvoiceNo,Description\n1,CAFÉ CRÈME\n")

	table, err := NewReader(discardLogger()).ReadTable(path, "", DefaultReadOptions())
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "CAFÉ CRÈME", table.Rows[0][1])
}

func TestReader_UTF8BOM(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "bom.csv", "\ufeffInvoiceNo,Description\n1,café\n")

	table, err := NewReader(discardLogger()).ReadTable(path, "bom_source", DefaultReadOptions())
	require.NoError(t, err)

	assert.Equal(t, "bom_source", table.Source)
	assert.Equal(t, []string{"InvoiceNo", "Description"}, table.Columns)
	assert.Equal(t, "café", table.Rows[0][1])
}

func TestDecodeCSV_MalformedLines(t *testing.T) {
	input := strings.Join([]string{
		"a,b",
		"1,2",
		"3,4,5",
		"6",
		",",
		"7,8,,",
		"",
		"9,10",
	}, "\n") + "\n"

	table, err := decodeCSV(strings.NewReader(input), ReadOptions{Encoding: EncodingUTF8})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, table.Columns)
	assert.Equal(t, [][]string{{"1", "2"}, {"6", ""}, {"7", "8"}, {"9", "10"}}, table.Rows)
	assert.Equal(t, 1, table.SkippedLines)
}

func TestDecodeCSV_UnnamedHeader(t *testing.T) {
	table, err := decodeCSV(strings.NewReader("a,,c\n1,2,3\n"), ReadOptions{Encoding: EncodingUTF8})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "unnamed_1", "c"}, table.Columns)
}

func TestDecodeCSV_Empty(t *testing.T) {
	_, err := decodeCSV(strings.NewReader("\n\n"), DefaultReadOptions())
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}

func TestReader_ReadXLSX(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteXLSX(t, dir, "online_retail_II.xlsx", "Year 2009-2010", [][]interface{}{
		{},
		{"Invoice", "StockCode", "Description", "Quantity", "InvoiceDate", "Price", "Customer ID", "Country"},
		{"489434", "85048", "15CM CHRISTMAS GLASS BALL 20 LIGHTS", 12, 40513.34375, 6.95, 13085, "United Kingdom"},
		{"489435", "22350", "CAT BOWL", 12, 40513.34375, 2.55, 13085},
	})

	table, err := NewReader(discardLogger()).ReadTable(path, "", DefaultReadOptions())
	require.NoError(t, err)

	assert.Equal(t, "online_retail_II", table.Source)
	assert.Equal(t, "Invoice", table.Columns[0])
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"489434", "85048", "15CM CHRISTMAS GLASS BALL 20 LIGHTS", "12", "40513.34375", "6.95", "13085", "United Kingdom"}, table.Rows[0])
	assert.Equal(t, "", table.Rows[1][7], "short rows are padded")

	ts, ok := ParseTimestamp(table.Rows[0][4])
	require.True(t, ok)
	assert.Equal(t, "2010-12-01 08:15:00", FormatTimestamp(ts))
}

func TestReader_ReadXLSX_NamedSheet(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteXLSX(t, dir, "book.xlsx", "Data", [][]interface{}{{"Qty"}, {3}})

	_, err := NewReader(discardLogger()).ReadTable(path, "", ReadOptions{Sheet: "Missing"})
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))

	table, err := NewReader(discardLogger()).ReadTable(path, "", ReadOptions{Sheet: "Data"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"3"}}, table.Rows)
}

func TestReader_Errors(t *testing.T) {
	dir := t.TempDir()
	r := NewReader(discardLogger())

	_, err := r.ReadTable(filepath.Join(dir, "missing_retail.csv"), "", DefaultReadOptions())
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))

	path := testutil.WriteFile(t, dir, "retail.json", "{}")
	_, err = r.ReadTable(path, "", DefaultReadOptions())
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))

	path = testutil.WriteFile(t, dir, "broken_retail.xlsx", "not a zip")
	_, err = r.ReadTable(path, "", DefaultReadOptions())
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}
