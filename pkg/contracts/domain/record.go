package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field is a canonical column name.
type Field = string

// Canonical schema fields.
const (
	FieldInvoiceNo   Field = "invoice_no"
	FieldStockCode   Field = "stock_code"
	FieldDescription Field = "description"
	FieldQuantity    Field = "quantity"
	FieldUnitPrice   Field = "unit_price"
	FieldInvoiceDate Field = "invoice_date"
	FieldCustomerID  Field = "customer_id"
	FieldCountry     Field = "country"
	FieldTotalPrice  Field = "total_price"
	FieldDataSource  Field = "data_source"

	// Date parts derived from invoice_date
	FieldYear  Field = "year"
	FieldMonth Field = "month"
	FieldDay   Field = "day"
	FieldHour  Field = "hour"
)

// CanonicalFields lists the typed fields of a SalesRecord in schema order.
var CanonicalFields = []Field{
	FieldInvoiceNo,
	FieldStockCode,
	FieldDescription,
	FieldQuantity,
	FieldUnitPrice,
	FieldInvoiceDate,
	FieldCustomerID,
	FieldCountry,
	FieldTotalPrice,
	FieldDataSource,
}

// DatePartFields lists the columns derived from invoice_date.
var DatePartFields = []Field{FieldYear, FieldMonth, FieldDay, FieldHour}

// IsCanonical reports whether name is one of the typed SalesRecord fields.
func IsCanonical(name string) bool {
	for _, f := range CanonicalFields {
		if f == name {
			return true
		}
	}
	return false
}

// IsDatePart reports whether name is a derived date part column.
func IsDatePart(name string) bool {
	for _, f := range DatePartFields {
		if f == name {
			return true
		}
	}
	return false
}

// Optional holds a value that may be absent.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// None returns an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// SalesRecord is one transaction line in the canonical schema.
// Columns that did not map to a canonical field are kept in Extra.
type SalesRecord struct {
	InvoiceNo   Optional[string]
	StockCode   Optional[string]
	Description Optional[string]
	Quantity    Optional[int64]
	UnitPrice   Optional[decimal.Decimal]
	InvoiceDate Optional[time.Time]
	CustomerID  Optional[string]
	Country     Optional[string]
	TotalPrice  Optional[decimal.Decimal]
	DataSource  string

	Extra map[string]string
}

// ExtraValue returns a passthrough column value.
func (r *SalesRecord) ExtraValue(column string) (string, bool) {
	if r.Extra == nil {
		return "", false
	}
	v, ok := r.Extra[column]
	return v, ok
}

// SetExtra stores a passthrough column value.
func (r *SalesRecord) SetExtra(column, value string) {
	if r.Extra == nil {
		r.Extra = make(map[string]string)
	}
	r.Extra[column] = value
}

// CleaningStats counts what the row filter did to one source.
type CleaningStats struct {
	Source                 string `json:"source"`
	InputRows              int    `json:"input_rows"`
	RemovedMissingCustomer int    `json:"removed_missing_customer"`
	RemovedQuantity        int    `json:"removed_quantity"`
	RemovedUnitPrice       int    `json:"removed_unit_price"`
	RemovedCancelled       int    `json:"removed_cancelled"`
	RemovedBadDate         int    `json:"removed_bad_date"`
	NulledDates            int    `json:"nulled_dates"`
	OutputRows             int    `json:"output_rows"`
}

// Removed returns the total number of dropped rows.
func (s CleaningStats) Removed() int {
	return s.RemovedMissingCustomer + s.RemovedQuantity + s.RemovedUnitPrice +
		s.RemovedCancelled + s.RemovedBadDate
}
