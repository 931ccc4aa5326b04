package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// OnlineRetailCSV is a small extract in the layout of the UCI Online Retail export
const OnlineRetailCSV = `InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country
536365,85123A,WHITE HANGING HEART T-LIGHT HOLDER,6,12/1/2010 8:26,2.55,17850,United Kingdom
536365,71053,WHITE METAL LANTERN,6,12/1/2010 8:26,3.39,17850,United Kingdom
536366,22633,HAND WARMER UNION JACK,6,12/1/2010 8:28,1.85,17850,United Kingdom
C536379,D,Discount,-1,12/1/2010 9:41,27.50,14527,United Kingdom
536380,22961,JAM MAKING SET PRINTED,24,12/1/2010 9:41,1.45,17809,France
536381,22139,RETROSPOT TEA SET CERAMIC 11 PC,0,12/1/2010 9:41,4.25,15311,United Kingdom
536382,22114,HOT WATER BOTTLE TEA AND SYMPATHY,4,12/1/2010 9:45,0,16098,United Kingdom
`

// ECommerceCSV is an extract with different header spellings and no country
const ECommerceCSV = `Invoice,Stock Code,Description,Qty,Order Date,Price,Customer ID
A1001,10002,INFLATABLE POLITICAL GLOBE,12,2011-01-04 10:00:00,0.85,13047
A1002,10080,GROOVY CACTUS INFLATABLE,24,2011-01-05 11:30:00,0.39,13047
`

// WriteFile writes content to dir/name and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}

// WriteLatin1CSV writes content encoded as ISO-8859-1. Runes outside
// Latin-1 are not supported.
func WriteLatin1CSV(t *testing.T, dir, name, content string) string {
	t.Helper()

	var b strings.Builder
	for _, r := range content {
		if r > 0xFF {
			t.Fatalf("rune %q cannot be encoded as latin1", r)
		}
		b.WriteByte(byte(r))
	}
	return WriteFile(t, dir, name, b.String())
}

// WriteXLSX builds a workbook with a single sheet holding rows and returns its path
func WriteXLSX(t *testing.T, dir, name, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			t.Fatalf("failed to rename sheet: %v", err)
		}
	} else {
		sheet = f.GetSheetName(0)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("invalid cell coordinates: %v", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("failed to write row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}
