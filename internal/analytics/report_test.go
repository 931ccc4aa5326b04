package analytics

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/internal/config"
	"salesreport/internal/shared/testutil"
	"salesreport/pkg/contracts/domain"
)

func artifactByID(res Result, id string) (Artifact, bool) {
	for _, a := range res.Artifacts {
		if a.Report == id {
			return a, true
		}
	}
	return Artifact{}, false
}

func TestAnalyzer_RunAllReports(t *testing.T) {
	ds := buildDataset(t,
		sale{"536365", "17850", "HOLDER", "United Kingdom", "2010-12-01 08:26", "15.30"},
		sale{"536366", "17850", "LANTERN", "France", "2010-12-02 09:00", "20.34"},
		sale{"536367", "13047", "HOLDER", "United Kingdom", "2011-01-04 10:00", "4.70"},
	)

	res := NewAnalyzer(Options{}, slog.New(slog.DiscardHandler)).Run(ds)

	assert.Empty(t, res.Skipped)
	require.Len(t, res.Artifacts, 5)

	var ids []string
	for _, a := range res.Artifacts {
		ids = append(ids, a.Report)
	}
	assert.Equal(t, []string{ReportBasicStatistics, ReportMonthlySales, ReportDailySales, ReportTopProducts, ReportCountrySales}, ids)

	basic, _ := artifactByID(res, ReportBasicStatistics)
	assert.Equal(t, config.BasicStatisticsCSV, basic.TableFile)
	assert.Nil(t, basic.Chart)
	assert.Equal(t, []string{"Metric", "Value"}, basic.Table.Header)
	assert.Equal(t, []string{"Total Sales", "40.34"}, basic.Table.Rows[0])

	monthly, _ := artifactByID(res, ReportMonthlySales)
	assert.Equal(t, []string{"year", "month", "total_price", "month_name", "period"}, monthly.Table.Header)
	assert.Equal(t, [][]string{
		{"2010", "12", "35.64", "Dec", "2010-Dec"},
		{"2011", "1", "4.70", "Jan", "2011-Jan"},
	}, monthly.Table.Rows)
	require.NotNil(t, monthly.Chart)
	assert.Equal(t, ChartLine, monthly.Chart.Kind)
	assert.Equal(t, []string{"2010-Dec", "2011-Jan"}, monthly.Chart.Labels)
	assert.Equal(t, config.MonthlySalesChart, monthly.ChartFile)

	daily, _ := artifactByID(res, ReportDailySales)
	assert.Equal(t, []string{"dayofweek", "total_price", "day_name"}, daily.Table.Header)
	require.Len(t, daily.Table.Rows, 7)
	assert.Equal(t, []string{"0", "0.00", "Monday"}, daily.Table.Rows[0])
	assert.Equal(t, []string{"1", "4.70", "Tuesday"}, daily.Table.Rows[1])
	assert.Equal(t, []string{"2", "15.30", "Wednesday"}, daily.Table.Rows[2])

	products, _ := artifactByID(res, ReportTopProducts)
	assert.Equal(t, []string{"description", "total_price"}, products.Table.Header)
	assert.Equal(t, [][]string{{"LANTERN", "20.34"}, {"HOLDER", "20.00"}}, products.Table.Rows)
	assert.Equal(t, ChartHorizontalBar, products.Chart.Kind)

	countries, _ := artifactByID(res, ReportCountrySales)
	assert.Equal(t, []string{"country", "total_price"}, countries.Table.Header)
	assert.Equal(t, [][]string{{"France", "20.34"}, {"United Kingdom", "20.00"}}, countries.Table.Rows)
	assert.Equal(t, config.TopCountriesChart, countries.ChartFile)
}

func TestAnalyzer_SkipsReportsWithMissingColumns(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)

	ds := domain.NewDataset(domain.FieldInvoiceNo, domain.FieldDescription, domain.FieldTotalPrice, domain.FieldDataSource)
	ds.Records = []domain.SalesRecord{
		{InvoiceNo: domain.Some("1"), Description: domain.Some("HOLDER"), TotalPrice: domain.Some(money("3.00"))},
	}

	res := NewAnalyzer(Options{TopN: 5}, logger).Run(ds)

	var produced []string
	for _, a := range res.Artifacts {
		produced = append(produced, a.Report)
	}
	assert.Equal(t, []string{ReportBasicStatistics, ReportTopProducts}, produced)

	skipped := make(map[string]Skip)
	for _, s := range res.Skipped {
		skipped[s.Report] = s
	}
	require.Len(t, skipped, 3)
	assert.Equal(t, []string{domain.FieldInvoiceDate}, skipped[ReportMonthlySales].Missing)
	assert.Equal(t, []string{domain.FieldInvoiceDate}, skipped[ReportDailySales].Missing)
	assert.Equal(t, []string{domain.FieldCountry}, skipped[ReportCountrySales].Missing)

	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Report skipped")
	testutil.AssertLogAttr(t, handler, "report", ReportCountrySales)
}

func TestAnalyzer_EmptyDatasetSkipsEverything(t *testing.T) {
	for _, ds := range []*domain.Dataset{nil, domain.NewDataset(domain.CanonicalFields...)} {
		res := NewAnalyzer(Options{}, slog.New(slog.DiscardHandler)).Run(ds)
		assert.Empty(t, res.Artifacts)
		assert.Len(t, res.Skipped, len(Reports()))
		assert.Equal(t, 0, res.Summary.Rows)
	}
}

func TestAnalyzer_TopNTitle(t *testing.T) {
	ds := buildDataset(t, sale{product: "A", country: "UK", total: "1"})

	res := NewAnalyzer(Options{TopN: 3}, slog.New(slog.DiscardHandler)).Run(ds)

	products, ok := artifactByID(res, ReportTopProducts)
	require.True(t, ok)
	assert.Equal(t, "Top 3 Products by Revenue", products.Chart.Title)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "15.30", FormatMoney(money("15.3")))
	assert.Equal(t, "0.00", FormatMoney(money("0")))
	assert.Equal(t, "2.56", FormatMoney(money("2.555")))
}
