package dataprocessing

import (
	"strconv"
	"strings"

	"salesreport/pkg/contracts/domain"
)

// Inferred column kinds
const (
	KindEmpty    = "empty"
	KindInteger  = "integer"
	KindDecimal  = "decimal"
	KindDatetime = "datetime"
	KindText     = "text"
)

// DefaultHeadRows is the number of sample rows an inspection keeps
const DefaultHeadRows = 5

// ColumnProfile describes one column of a raw table
type ColumnProfile struct {
	Name      string
	Canonical string
	Kind      string
	NonNull   int
	Missing   int
}

// Inspection is a structural overview of a source file
type Inspection struct {
	Source       string
	Path         string
	Rows         int
	SkippedLines int
	Columns      []ColumnProfile
	Head         [][]string
}

// Inspect profiles t: its shape, per-column null counts and inferred kinds,
// and the first headRows rows.
func Inspect(t *domain.RawTable, headRows int) *Inspection {
	if headRows < 0 {
		headRows = DefaultHeadRows
	}

	in := &Inspection{
		Source:       t.Source,
		Path:         t.Path,
		Rows:         len(t.Rows),
		SkippedLines: t.SkippedLines,
	}

	for i, name := range t.Columns {
		p := ColumnProfile{Name: name}
		if canonical, ok := CanonicalName(name); ok {
			p.Canonical = canonical
		}
		kinds := kindTracker{}
		for _, row := range t.Rows {
			v, ok := rawCell(row, i)
			if !ok {
				p.Missing++
				continue
			}
			p.NonNull++
			kinds.observe(strings.TrimSpace(v))
		}
		p.Kind = kinds.result()
		in.Columns = append(in.Columns, p)
	}

	n := headRows
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	in.Head = t.Rows[:n]

	return in
}

// MissingTotal returns the number of null cells across all columns
func (in *Inspection) MissingTotal() int {
	total := 0
	for _, c := range in.Columns {
		total += c.Missing
	}
	return total
}

// kindTracker narrows a column's kind as values are observed
type kindTracker struct {
	seen      bool
	notInt    bool
	notNumber bool
	notTime   bool
}

func (k *kindTracker) observe(v string) {
	k.seen = true
	if !k.notInt {
		if _, err := strconv.ParseInt(cleanNumber(v), 10, 64); err != nil {
			k.notInt = true
		}
	}
	if !k.notNumber {
		if _, ok := ParseDecimal(v); !ok {
			k.notNumber = true
		}
	}
	if !k.notTime {
		// Bare numbers are not treated as dates here
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			k.notTime = true
		} else if _, ok := ParseTimestamp(v); !ok {
			k.notTime = true
		}
	}
}

func (k *kindTracker) result() string {
	switch {
	case !k.seen:
		return KindEmpty
	case !k.notInt:
		return KindInteger
	case !k.notNumber:
		return KindDecimal
	case !k.notTime:
		return KindDatetime
	default:
		return KindText
	}
}
