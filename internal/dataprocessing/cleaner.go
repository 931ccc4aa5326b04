package dataprocessing

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"salesreport/internal/config"
	"salesreport/pkg/contracts/domain"
)

// Removal rules, used as metric labels and log attributes
const (
	RuleMissingCustomer = "missing_customer"
	RuleQuantity        = "quantity"
	RuleUnitPrice       = "unit_price"
	RuleCancelled       = "cancelled"
	RuleBadDate         = "bad_date"
)

// CleanOptions controls the row filter
type CleanOptions struct {
	// DatePolicy is config.DatePolicyNull or config.DatePolicyDrop
	DatePolicy        string
	RequireCustomerID bool
	DeriveDateParts   bool
}

// DefaultCleanOptions returns the standard cleaning behaviour
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		DatePolicy:      config.DatePolicyNull,
		DeriveDateParts: true,
	}
}

// CleanOptionsFromConfig maps the cleaning section of the configuration
func CleanOptionsFromConfig(cfg config.CleaningConfig) CleanOptions {
	opts := CleanOptions{
		DatePolicy:        cfg.DatePolicy,
		RequireCustomerID: cfg.RequireCustomerID,
		DeriveDateParts:   cfg.DeriveDateParts,
	}
	if opts.DatePolicy == "" {
		opts.DatePolicy = config.DatePolicyNull
	}
	return opts
}

// Cleaner turns a normalized raw table into a canonical dataset
type Cleaner struct {
	opts   CleanOptions
	logger *slog.Logger
}

// NewCleaner creates a cleaner. A nil logger uses slog.Default().
func NewCleaner(opts CleanOptions, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{opts: opts, logger: logger}
}

// Clean applies the row rules to t, which must already be normalized.
// Rules whose column is absent are skipped. The rules, in order:
//
//   - rows without a customer id are dropped when RequireCustomerID is set
//   - rows whose quantity is missing, unparseable or <= 0 are dropped
//   - the same for unit_price
//   - rows whose invoice_no starts with "C" are cancellations and dropped
//   - invoice_date is parsed; failures are nulled or dropped per DatePolicy
//   - total_price is derived from quantity and unit_price
//   - data_source is set to the table's source name
func (c *Cleaner) Clean(t *domain.RawTable) (*domain.Dataset, domain.CleaningStats) {
	stats := domain.CleaningStats{Source: t.Source, InputRows: len(t.Rows)}
	layout := newColumnLayout(t.Columns)

	ds := &domain.Dataset{Columns: c.outputColumns(t.Columns, layout)}
	ds.Records = make([]domain.SalesRecord, 0, len(t.Rows))

	dropDates := c.opts.DatePolicy == config.DatePolicyDrop

	for _, row := range t.Rows {
		res := decodeRow(layout, row)
		rec := res.record

		if c.opts.RequireCustomerID && layout.customerID >= 0 && !rec.CustomerID.Valid {
			stats.RemovedMissingCustomer++
			continue
		}
		if layout.quantity >= 0 && (!rec.Quantity.Valid || rec.Quantity.Value <= 0) {
			stats.RemovedQuantity++
			continue
		}
		if layout.unitPrice >= 0 && (!rec.UnitPrice.Valid || !rec.UnitPrice.Value.IsPositive()) {
			stats.RemovedUnitPrice++
			continue
		}
		if inv, ok := rec.InvoiceNo.Get(); ok && strings.HasPrefix(inv, "C") {
			stats.RemovedCancelled++
			continue
		}
		if layout.invoiceDate >= 0 && !rec.InvoiceDate.Valid {
			if dropDates {
				stats.RemovedBadDate++
				continue
			}
			if res.dateUnparsed {
				stats.NulledDates++
			}
		}

		if rec.Quantity.Valid && rec.UnitPrice.Valid {
			rec.TotalPrice = domain.Some(rec.UnitPrice.Value.Mul(decimal.NewFromInt(rec.Quantity.Value)))
		}

		if c.opts.DeriveDateParts && layout.invoiceDate >= 0 {
			for _, part := range domain.DatePartFields {
				delete(rec.Extra, part)
			}
		}

		rec.DataSource = t.Source
		ds.Records = append(ds.Records, rec)
	}

	stats.OutputRows = len(ds.Records)

	c.logger.Info("Source cleaned",
		slog.String("source", t.Source),
		slog.Int("input_rows", stats.InputRows),
		slog.Int("output_rows", stats.OutputRows),
		slog.Int("removed_quantity", stats.RemovedQuantity),
		slog.Int("removed_unit_price", stats.RemovedUnitPrice),
		slog.Int("removed_cancelled", stats.RemovedCancelled),
		slog.Int("removed_missing_customer", stats.RemovedMissingCustomer),
		slog.Int("removed_bad_date", stats.RemovedBadDate),
		slog.Int("nulled_dates", stats.NulledDates))

	if stats.NulledDates > 0 {
		c.logger.Warn("Unparseable invoice dates set to null",
			slog.String("source", t.Source),
			slog.Int("count", stats.NulledDates))
	}
	for _, f := range c.skippedRules(layout) {
		c.logger.Warn("Cleaning rule skipped, column absent",
			slog.String("source", t.Source),
			slog.String("column", f))
	}

	return ds, stats
}

// outputColumns is the input column order followed by derived columns
func (c *Cleaner) outputColumns(columns []string, l columnLayout) []string {
	ds := domain.NewDataset(columns...)
	if l.quantity >= 0 && l.unitPrice >= 0 {
		ds.AddColumn(domain.FieldTotalPrice)
	}
	if c.opts.DeriveDateParts && l.invoiceDate >= 0 {
		for _, part := range domain.DatePartFields {
			ds.AddColumn(part)
		}
	}
	ds.AddColumn(domain.FieldDataSource)
	return ds.Columns
}

func (c *Cleaner) skippedRules(l columnLayout) []string {
	var skipped []string
	if l.quantity < 0 {
		skipped = append(skipped, domain.FieldQuantity)
	}
	if l.unitPrice < 0 {
		skipped = append(skipped, domain.FieldUnitPrice)
	}
	if l.invoiceNo < 0 {
		skipped = append(skipped, domain.FieldInvoiceNo)
	}
	if l.invoiceDate < 0 {
		skipped = append(skipped, domain.FieldInvoiceDate)
	}
	return skipped
}

// RemovedByRule returns the non-zero removal counts keyed by rule
func RemovedByRule(s domain.CleaningStats) map[string]int {
	counts := map[string]int{
		RuleMissingCustomer: s.RemovedMissingCustomer,
		RuleQuantity:        s.RemovedQuantity,
		RuleUnitPrice:       s.RemovedUnitPrice,
		RuleCancelled:       s.RemovedCancelled,
		RuleBadDate:         s.RemovedBadDate,
	}
	for k, v := range counts {
		if v == 0 {
			delete(counts, k)
		}
	}
	return counts
}
