package analytics

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salesreport/internal/config"
	"salesreport/internal/dataprocessing"
	"salesreport/pkg/contracts/domain"
)

// Report identifiers
const (
	ReportBasicStatistics = "basic_statistics"
	ReportMonthlySales    = "monthly_sales"
	ReportDailySales      = "daily_sales"
	ReportTopProducts     = "top_products"
	ReportCountrySales    = "country_sales"
)

// NotAvailable is written for a metric whose column is missing
const NotAvailable = "N/A"

// ChartKind selects how a series is drawn
type ChartKind string

const (
	ChartLine          ChartKind = "line"
	ChartBar           ChartKind = "bar"
	ChartHorizontalBar ChartKind = "hbar"
)

// Table is a rendered report table
type Table struct {
	Header []string
	Rows   [][]string
}

// Series is the data behind a chart
type Series struct {
	Kind   ChartKind
	Title  string
	XLabel string
	YLabel string
	Labels []string
	Values []float64
}

// Artifact is the output of one report
type Artifact struct {
	Report    string
	TableFile string
	ChartFile string
	Table     Table
	Chart     *Series
}

// Skip records a report that was not produced
type Skip struct {
	Report  string
	Missing []string
	Reason  string
}

// Options configures report computation
type Options struct {
	TopN int
}

// Report is one entry of the report registry
type Report struct {
	ID        string
	Required  []string
	TableFile string
	ChartFile string
	Build     func(ds *domain.Dataset, opts Options) (Table, *Series)
}

// Reports returns the registry in execution order
func Reports() []Report {
	return []Report{
		{
			ID:        ReportBasicStatistics,
			TableFile: config.BasicStatisticsCSV,
			Build:     buildBasicStatistics,
		},
		{
			ID:        ReportMonthlySales,
			Required:  []string{domain.FieldInvoiceDate, domain.FieldTotalPrice},
			TableFile: config.MonthlySalesCSV,
			ChartFile: config.MonthlySalesChart,
			Build:     buildMonthlySales,
		},
		{
			ID:        ReportDailySales,
			Required:  []string{domain.FieldInvoiceDate, domain.FieldTotalPrice},
			TableFile: config.DailySalesCSV,
			ChartFile: config.DailySalesChart,
			Build:     buildDailySales,
		},
		{
			ID:        ReportTopProducts,
			Required:  []string{domain.FieldDescription, domain.FieldTotalPrice},
			TableFile: config.TopProductsCSV,
			ChartFile: config.TopProductsChart,
			Build:     buildTopProducts,
		},
		{
			ID:        ReportCountrySales,
			Required:  []string{domain.FieldCountry, domain.FieldTotalPrice},
			TableFile: config.CountrySalesCSV,
			ChartFile: config.TopCountriesChart,
			Build:     buildCountrySales,
		},
	}
}

// Result is the outcome of an analyzer run
type Result struct {
	Summary   Summary
	Artifacts []Artifact
	Skipped   []Skip
}

// Analyzer runs the report registry over a dataset
type Analyzer struct {
	reports []Report
	opts    Options
	logger  *slog.Logger
}

// NewAnalyzer creates an analyzer over the standard reports.
// A non-positive TopN uses the default.
func NewAnalyzer(opts Options, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopN <= 0 {
		opts.TopN = config.DefaultTopN
	}
	return &Analyzer{reports: Reports(), opts: opts, logger: logger}
}

// Run computes every report whose required columns are present. Missing
// columns skip a report; an empty dataset skips all of them.
func (a *Analyzer) Run(ds *domain.Dataset) Result {
	res := Result{Summary: ComputeSummary(ds)}

	if ds.Len() == 0 {
		a.logger.Warn("Dataset is empty, skipping all reports")
		for _, r := range a.reports {
			res.Skipped = append(res.Skipped, Skip{Report: r.ID, Reason: "empty dataset"})
		}
		return res
	}

	for _, r := range a.reports {
		if missing := ds.Missing(r.Required...); len(missing) > 0 {
			a.logger.Warn("Report skipped, required columns missing",
				slog.String("report", r.ID),
				slog.Any("missing", missing))
			res.Skipped = append(res.Skipped, Skip{
				Report:  r.ID,
				Missing: missing,
				Reason:  fmt.Sprintf("missing columns %v", missing),
			})
			continue
		}

		table, chart := r.Build(ds, a.opts)
		res.Artifacts = append(res.Artifacts, Artifact{
			Report:    r.ID,
			TableFile: r.TableFile,
			ChartFile: r.ChartFile,
			Table:     table,
			Chart:     chart,
		})
		a.logger.Debug("Report computed", slog.String("report", r.ID), slog.Int("rows", len(table.Rows)))
	}

	return res
}

// FormatMoney renders an amount with two decimals
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

var printer = message.NewPrinter(language.English)

// groupedMoney renders d with two decimals and grouped thousands. Rounding
// stays in decimal arithmetic and only the integral digits are grouped.
func groupedMoney(d decimal.Decimal) string {
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return d.StringFixed(2)
	}

	out := printer.Sprintf("%d", n) + "." + frac
	if d.Round(2).IsNegative() {
		out = "-" + out
	}
	return out
}

// Metrics renders the summary as Metric/Value pairs with grouped digits
func (s Summary) Metrics() [][2]string {
	count := func(v domain.Optional[int]) string {
		if !v.Valid {
			return NotAvailable
		}
		return printer.Sprintf("%d", v.Value)
	}

	revenue := NotAvailable
	if v, ok := s.TotalRevenue.Get(); ok {
		revenue = groupedMoney(v)
	}

	countries := NotAvailable
	if v, ok := s.Countries.Get(); ok {
		countries = strconv.Itoa(v)
	}

	dateRange := NotAvailable
	if s.FirstDate.Valid && s.LastDate.Valid {
		dateRange = fmt.Sprintf("%s to %s",
			dataprocessing.FormatTimestamp(s.FirstDate.Value),
			dataprocessing.FormatTimestamp(s.LastDate.Value))
	}

	return [][2]string{
		{"Total Sales", revenue},
		{"Transactions", count(s.Invoices)},
		{"Customers", count(s.Customers)},
		{"Products", count(s.Products)},
		{"Countries", countries},
		{"Date Range", dateRange},
	}
}

func buildBasicStatistics(ds *domain.Dataset, _ Options) (Table, *Series) {
	t := Table{Header: []string{"Metric", "Value"}}
	for _, m := range ComputeSummary(ds).Metrics() {
		t.Rows = append(t.Rows, []string{m[0], m[1]})
	}
	return t, nil
}

func buildMonthlySales(ds *domain.Dataset, _ Options) (Table, *Series) {
	months := MonthlySales(ds)
	t := Table{Header: []string{"year", "month", "total_price", "month_name", "period"}}
	s := &Series{Kind: ChartLine, Title: "Monthly Sales Trend", XLabel: "Month", YLabel: "Total Sales"}
	for _, m := range months {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(m.Year),
			strconv.Itoa(int(m.Month)),
			FormatMoney(m.Total),
			m.MonthName(),
			m.Period(),
		})
		s.Labels = append(s.Labels, m.Period())
		s.Values = append(s.Values, m.Total.InexactFloat64())
	}
	return t, s
}

func buildDailySales(ds *domain.Dataset, _ Options) (Table, *Series) {
	t := Table{Header: []string{"dayofweek", "total_price", "day_name"}}
	s := &Series{Kind: ChartBar, Title: "Sales by Day of Week", XLabel: "Day", YLabel: "Total Sales"}
	for _, d := range DailySales(ds) {
		t.Rows = append(t.Rows, []string{strconv.Itoa(d.DayOfWeek), FormatMoney(d.Total), d.DayName()})
		s.Labels = append(s.Labels, d.DayName())
		s.Values = append(s.Values, d.Total.InexactFloat64())
	}
	return t, s
}

func buildTopProducts(ds *domain.Dataset, opts Options) (Table, *Series) {
	top := TopProducts(ds, opts.TopN)
	s := &Series{
		Kind:   ChartHorizontalBar,
		Title:  fmt.Sprintf("Top %d Products by Revenue", opts.TopN),
		XLabel: "Total Revenue",
		YLabel: "Product",
	}
	return rankedTable(domain.FieldDescription, top, s), s
}

func buildCountrySales(ds *domain.Dataset, opts Options) (Table, *Series) {
	top := TopCountries(ds, opts.TopN)
	s := &Series{
		Kind:   ChartBar,
		Title:  fmt.Sprintf("Top %d Countries by Sales", opts.TopN),
		XLabel: "Country",
		YLabel: "Total Sales",
	}
	return rankedTable(domain.FieldCountry, top, s), s
}

func rankedTable(keyColumn string, ranked []RankedTotal, s *Series) Table {
	t := Table{Header: []string{keyColumn, "total_price"}}
	for _, r := range ranked {
		t.Rows = append(t.Rows, []string{r.Key, FormatMoney(r.Total)})
		s.Labels = append(s.Labels, r.Key)
		s.Values = append(s.Values, r.Total.InexactFloat64())
	}
	return t
}
