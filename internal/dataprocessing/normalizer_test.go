package dataprocessing

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/internal/shared/testutil"
	"salesreport/pkg/contracts/domain"
)

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Field
	}{
		{"InvoiceNo", domain.FieldInvoiceNo},
		{"Invoice No", domain.FieldInvoiceNo},
		{"invoice_no", domain.FieldInvoiceNo},
		{"Invoice Number", domain.FieldInvoiceNo},
		{"Invoice", domain.FieldInvoiceNo},
		{"StockCode", domain.FieldStockCode},
		{"Stock Code", domain.FieldStockCode},
		{" Description ", domain.FieldDescription},
		{"Quantity", domain.FieldQuantity},
		{"Qty", domain.FieldQuantity},
		{"UnitPrice", domain.FieldUnitPrice},
		{"Unit_Price", domain.FieldUnitPrice},
		{"Price", domain.FieldUnitPrice},
		{"InvoiceDate", domain.FieldInvoiceDate},
		{"Order Date", domain.FieldInvoiceDate},
		{"order-date", domain.FieldInvoiceDate},
		{"CustomerID", domain.FieldCustomerID},
		{"Customer ID", domain.FieldCustomerID},
		{"COUNTRY", domain.FieldCountry},
		{"TotalPrice", domain.FieldTotalPrice},
		{"Total Price", domain.FieldTotalPrice},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := CanonicalName(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := CanonicalName("Customer Name")
	assert.False(t, ok)
}

func TestNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    []string
	}{
		{
			name:    "online retail header",
			columns: []string{"InvoiceNo", "StockCode", "Description", "Quantity", "InvoiceDate", "UnitPrice", "CustomerID", "Country"},
			want:    []string{"invoice_no", "stock_code", "description", "quantity", "invoice_date", "unit_price", "customer_id", "country"},
		},
		{
			name:    "ecommerce header",
			columns: []string{"Invoice", "Stock Code", "Qty", "Order Date", "Price", "Customer ID"},
			want:    []string{"invoice_no", "stock_code", "quantity", "invoice_date", "unit_price", "customer_id"},
		},
		{
			name:    "unmapped columns pass through lowercased",
			columns: []string{"  Customer   Name ", "Region", "Qty"},
			want:    []string{"customer name", "region", "quantity"},
		},
		{
			name:    "collision keeps first canonical",
			columns: []string{"Invoice", "InvoiceNo"},
			want:    []string{"invoice_no", "invoiceno"},
		},
		{
			name:    "duplicate passthrough names are suffixed",
			columns: []string{"Notes", "notes ", "NOTES"},
			want:    []string{"notes", "notes_2", "notes_3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(slog.New(slog.DiscardHandler))
			in := &domain.RawTable{Source: "s", Columns: append([]string(nil), tt.columns...)}

			out := n.Normalize(in)

			assert.Equal(t, tt.want, out.Columns)
			assert.Len(t, out.Columns, len(tt.columns), "no column is dropped")
			assert.Equal(t, tt.columns, in.Columns, "input is not modified")
		})
	}
}

func TestNormalizer_CollisionIsLogged(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	n := NewNormalizer(logger)

	n.Normalize(&domain.RawTable{Source: "dup", Columns: []string{"Price", "Unit Price"}})

	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Duplicate column for canonical field")
	testutil.AssertLogAttr(t, handler, "canonical", domain.FieldUnitPrice)
}

func TestNormalizer_NilTable(t *testing.T) {
	assert.Nil(t, NewNormalizer(nil).Normalize(nil))
}
