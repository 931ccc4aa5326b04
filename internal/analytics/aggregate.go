package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"salesreport/pkg/contracts/domain"
)

// DayNames indexes weekdays Monday=0 through Sunday=6
var DayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// MonthlySale is the revenue of one calendar month
type MonthlySale struct {
	Year  int
	Month time.Month
	Total decimal.Decimal
}

// MonthName returns the abbreviated month name, e.g. "Dec"
func (m MonthlySale) MonthName() string {
	return m.Month.String()[:3]
}

// Period returns the "YYYY-Mon" label
func (m MonthlySale) Period() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-Jan")
}

// DailySale is the revenue of one weekday, Monday=0
type DailySale struct {
	DayOfWeek int
	Total     decimal.Decimal
}

// DayName returns the weekday name
func (d DailySale) DayName() string {
	return DayNames[d.DayOfWeek]
}

// RankedTotal is a group key with its revenue
type RankedTotal struct {
	Key   string
	Total decimal.Decimal
}

// Summary holds the headline figures of a dataset. A metric whose column is
// absent is not valid.
type Summary struct {
	Rows         int
	TotalRevenue domain.Optional[decimal.Decimal]
	Invoices     domain.Optional[int]
	Customers    domain.Optional[int]
	Products     domain.Optional[int]
	Countries    domain.Optional[int]
	FirstDate    domain.Optional[time.Time]
	LastDate     domain.Optional[time.Time]
}

// ComputeSummary computes the summary metrics of ds
func ComputeSummary(ds *domain.Dataset) Summary {
	s := Summary{Rows: ds.Len()}
	if ds == nil {
		return s
	}

	if ds.HasColumn(domain.FieldTotalPrice) {
		total := decimal.Zero
		for i := range ds.Records {
			if v, ok := ds.Records[i].TotalPrice.Get(); ok {
				total = total.Add(v)
			}
		}
		s.TotalRevenue = domain.Some(total)
	}

	distinct := func(field string, get func(r *domain.SalesRecord) (string, bool)) domain.Optional[int] {
		if !ds.HasColumn(field) {
			return domain.None[int]()
		}
		seen := make(map[string]struct{})
		for i := range ds.Records {
			if v, ok := get(&ds.Records[i]); ok {
				seen[v] = struct{}{}
			}
		}
		return domain.Some(len(seen))
	}

	s.Invoices = distinct(domain.FieldInvoiceNo, func(r *domain.SalesRecord) (string, bool) { return r.InvoiceNo.Get() })
	s.Customers = distinct(domain.FieldCustomerID, func(r *domain.SalesRecord) (string, bool) { return r.CustomerID.Get() })
	s.Products = distinct(domain.FieldDescription, func(r *domain.SalesRecord) (string, bool) { return r.Description.Get() })
	s.Countries = distinct(domain.FieldCountry, func(r *domain.SalesRecord) (string, bool) { return r.Country.Get() })

	if ds.HasColumn(domain.FieldInvoiceDate) {
		var first, last time.Time
		found := false
		for i := range ds.Records {
			t, ok := ds.Records[i].InvoiceDate.Get()
			if !ok {
				continue
			}
			if !found || t.Before(first) {
				first = t
			}
			if !found || t.After(last) {
				last = t
			}
			found = true
		}
		if found {
			s.FirstDate = domain.Some(first)
			s.LastDate = domain.Some(last)
		}
	}

	return s
}

// MonthlySales sums total_price per calendar month in chronological order.
// Records without a date are excluded.
func MonthlySales(ds *domain.Dataset) []MonthlySale {
	type key struct {
		year  int
		month time.Month
	}
	totals := make(map[key]decimal.Decimal)
	for i := range ds.Records {
		r := &ds.Records[i]
		t, ok := r.InvoiceDate.Get()
		if !ok {
			continue
		}
		k := key{t.Year(), t.Month()}
		sum := totals[k]
		if v, ok := r.TotalPrice.Get(); ok {
			sum = sum.Add(v)
		}
		totals[k] = sum
	}

	out := make([]MonthlySale, 0, len(totals))
	for k, total := range totals {
		out = append(out, MonthlySale{Year: k.year, Month: k.month, Total: total})
	}
	slices.SortFunc(out, func(a, b MonthlySale) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})
	return out
}

// Weekday maps t to Monday=0 through Sunday=6
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DailySales sums total_price per weekday. All seven days are always present.
func DailySales(ds *domain.Dataset) []DailySale {
	out := make([]DailySale, 7)
	for d := range out {
		out[d] = DailySale{DayOfWeek: d, Total: decimal.Zero}
	}
	for i := range ds.Records {
		r := &ds.Records[i]
		t, ok := r.InvoiceDate.Get()
		if !ok {
			continue
		}
		v, ok := r.TotalPrice.Get()
		if !ok {
			continue
		}
		d := Weekday(t)
		out[d].Total = out[d].Total.Add(v)
	}
	return out
}

// TopBy ranks the values of a grouping key by summed total_price and keeps
// the first n. Ties keep the order in which keys were first encountered.
func TopBy(ds *domain.Dataset, n int, key func(r *domain.SalesRecord) (string, bool)) []RankedTotal {
	index := make(map[string]int)
	var groups []RankedTotal
	for i := range ds.Records {
		r := &ds.Records[i]
		k, ok := key(r)
		if !ok {
			continue
		}
		pos, seen := index[k]
		if !seen {
			pos = len(groups)
			index[k] = pos
			groups = append(groups, RankedTotal{Key: k, Total: decimal.Zero})
		}
		if v, ok := r.TotalPrice.Get(); ok {
			groups[pos].Total = groups[pos].Total.Add(v)
		}
	}

	slices.SortStableFunc(groups, func(a, b RankedTotal) int {
		return b.Total.Cmp(a.Total)
	})
	if n >= 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// TopProducts returns the n products with the highest revenue
func TopProducts(ds *domain.Dataset, n int) []RankedTotal {
	return TopBy(ds, n, func(r *domain.SalesRecord) (string, bool) { return r.Description.Get() })
}

// TopCountries returns the n countries with the highest revenue
func TopCountries(ds *domain.Dataset, n int) []RankedTotal {
	return TopBy(ds, n, func(r *domain.SalesRecord) (string, bool) { return r.Country.Get() })
}
