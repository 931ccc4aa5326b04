package dataprocessing

import (
	"strconv"
	"strings"

	"salesreport/pkg/contracts/domain"
)

// columnLayout locates the canonical fields of a table
type columnLayout struct {
	invoiceNo, stockCode, description int
	quantity, unitPrice, invoiceDate  int
	customerID, country, totalPrice   int
	dataSource                        int

	// extras are passthrough columns in table order
	extras []extraColumn
}

type extraColumn struct {
	name  string
	index int
}

func newColumnLayout(columns []string) columnLayout {
	l := columnLayout{
		invoiceNo: -1, stockCode: -1, description: -1,
		quantity: -1, unitPrice: -1, invoiceDate: -1,
		customerID: -1, country: -1, totalPrice: -1,
		dataSource: -1,
	}
	for i, c := range columns {
		switch c {
		case domain.FieldInvoiceNo:
			l.invoiceNo = i
		case domain.FieldStockCode:
			l.stockCode = i
		case domain.FieldDescription:
			l.description = i
		case domain.FieldQuantity:
			l.quantity = i
		case domain.FieldUnitPrice:
			l.unitPrice = i
		case domain.FieldInvoiceDate:
			l.invoiceDate = i
		case domain.FieldCustomerID:
			l.customerID = i
		case domain.FieldCountry:
			l.country = i
		case domain.FieldTotalPrice:
			l.totalPrice = i
		case domain.FieldDataSource:
			l.dataSource = i
		default:
			l.extras = append(l.extras, extraColumn{name: c, index: i})
		}
	}
	return l
}

// decodeResult carries the parse outcome of fields that rules depend on
type decodeResult struct {
	record domain.SalesRecord
	// dateUnparsed is set when invoice_date held a value that did not parse
	dateUnparsed bool
}

// decodeRow converts one raw row into a record. Values that fail to parse
// become null; no row is rejected here.
func decodeRow(l columnLayout, row []string) decodeResult {
	var res decodeResult
	rec := &res.record

	rec.InvoiceNo = textCell(row, l.invoiceNo)
	rec.StockCode = textCell(row, l.stockCode)
	rec.Description = textCell(row, l.description)
	rec.CustomerID = textCell(row, l.customerID)
	rec.Country = textCell(row, l.country)

	if v, ok := rawCell(row, l.quantity); ok {
		if q, ok := ParseQuantity(v); ok {
			rec.Quantity = domain.Some(q)
		}
	}
	if v, ok := rawCell(row, l.unitPrice); ok {
		if p, ok := ParseDecimal(v); ok {
			rec.UnitPrice = domain.Some(p)
		}
	}
	if v, ok := rawCell(row, l.totalPrice); ok {
		if p, ok := ParseDecimal(v); ok {
			rec.TotalPrice = domain.Some(p)
		}
	}
	if v, ok := rawCell(row, l.invoiceDate); ok {
		if ts, ok := ParseTimestamp(v); ok {
			rec.InvoiceDate = domain.Some(ts)
		} else {
			res.dateUnparsed = true
		}
	}
	if v, ok := rawCell(row, l.dataSource); ok {
		rec.DataSource = strings.TrimSpace(v)
	}

	for _, ex := range l.extras {
		if v, ok := rawCell(row, ex.index); ok {
			rec.SetExtra(ex.name, v)
		}
	}

	return res
}

func rawCell(row []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	v := row[idx]
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func textCell(row []string, idx int) domain.Optional[string] {
	v, ok := rawCell(row, idx)
	if !ok {
		return domain.None[string]()
	}
	return domain.Some(strings.TrimSpace(v))
}

// FieldValue renders column col of r the way it is persisted. The second
// result is false for null.
func FieldValue(r *domain.SalesRecord, col string) (string, bool) {
	switch col {
	case domain.FieldInvoiceNo:
		return r.InvoiceNo.Get()
	case domain.FieldStockCode:
		return r.StockCode.Get()
	case domain.FieldDescription:
		return r.Description.Get()
	case domain.FieldCustomerID:
		return r.CustomerID.Get()
	case domain.FieldCountry:
		return r.Country.Get()
	case domain.FieldDataSource:
		return r.DataSource, r.DataSource != ""
	case domain.FieldQuantity:
		if !r.Quantity.Valid {
			return "", false
		}
		return strconv.FormatInt(r.Quantity.Value, 10), true
	case domain.FieldUnitPrice:
		if !r.UnitPrice.Valid {
			return "", false
		}
		return r.UnitPrice.Value.String(), true
	case domain.FieldTotalPrice:
		if !r.TotalPrice.Valid {
			return "", false
		}
		return r.TotalPrice.Value.String(), true
	case domain.FieldInvoiceDate:
		if !r.InvoiceDate.Valid {
			return "", false
		}
		return FormatTimestamp(r.InvoiceDate.Value), true
	}

	if v, ok := r.ExtraValue(col); ok {
		return v, true
	}

	if domain.IsDatePart(col) && r.InvoiceDate.Valid {
		t := r.InvoiceDate.Value
		var n int
		switch col {
		case domain.FieldYear:
			n = t.Year()
		case domain.FieldMonth:
			n = int(t.Month())
		case domain.FieldDay:
			n = t.Day()
		case domain.FieldHour:
			n = t.Hour()
		}
		return strconv.Itoa(n), true
	}

	return "", false
}
