package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"salesreport/pkg/contracts/domain"
)

// columnSynonyms maps each canonical field to the header spellings that
// should resolve to it. Keys are compared in compact form.
var columnSynonyms = map[domain.Field][]string{
	domain.FieldInvoiceNo:   {"invoiceno", "invoice no", "invoice number", "invoice"},
	domain.FieldStockCode:   {"stockcode", "stock code"},
	domain.FieldDescription: {"description"},
	domain.FieldQuantity:    {"quantity", "qty"},
	domain.FieldUnitPrice:   {"unitprice", "unit price", "price"},
	domain.FieldInvoiceDate: {"invoicedate", "invoice date", "order date", "orderdate"},
	domain.FieldCustomerID:  {"customerid", "customer id"},
	domain.FieldCountry:     {"country"},
	domain.FieldTotalPrice:  {"totalprice", "total price"},
	domain.FieldDataSource:  {"data source"},
}

var synonymIndex = buildSynonymIndex()

func buildSynonymIndex() map[string]domain.Field {
	idx := make(map[string]domain.Field)
	for canonical, variants := range columnSynonyms {
		idx[compactKey(canonical)] = canonical
		for _, v := range variants {
			idx[compactKey(v)] = canonical
		}
	}
	return idx
}

// normalizeKey lowercases, trims and collapses internal whitespace
func normalizeKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// compactKey drops every separator so "Invoice_No", "invoice-no" and
// "InvoiceNo" compare equal
func compactKey(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// CanonicalName resolves a raw header to its canonical field.
func CanonicalName(raw string) (domain.Field, bool) {
	f, ok := synonymIndex[compactKey(raw)]
	return f, ok
}

// Normalizer renames raw columns to the canonical schema
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer. A nil logger uses slog.Default().
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize returns a copy of t with canonical column names. Unmapped columns
// pass through lowercased and trimmed, and no column is dropped. When two
// columns resolve to the same canonical field the first one keeps it.
// The input table is not modified; rows are shared.
func (n *Normalizer) Normalize(t *domain.RawTable) *domain.RawTable {
	if t == nil {
		return nil
	}

	out := *t
	out.Columns = make([]string, len(t.Columns))

	used := make(map[string]bool, len(t.Columns))
	for i, raw := range t.Columns {
		name := normalizeKey(raw)
		if canonical, ok := CanonicalName(raw); ok {
			if !used[canonical] {
				name = canonical
			} else {
				n.logger.Warn("Duplicate column for canonical field, passing through",
					slog.String("source", t.Source),
					slog.String("column", raw),
					slog.String("canonical", canonical))
			}
		}

		if used[name] {
			base := name
			for k := 2; used[name]; k++ {
				name = fmt.Sprintf("%s_%d", base, k)
			}
			n.logger.Warn("Duplicate column name renamed",
				slog.String("source", t.Source),
				slog.String("column", raw),
				slog.String("renamed", name))
		}

		used[name] = true
		out.Columns[i] = name
	}

	n.logger.Debug("Columns normalized",
		slog.String("source", t.Source),
		slog.Any("columns", out.Columns))

	return &out
}
