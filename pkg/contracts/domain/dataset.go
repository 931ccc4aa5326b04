package domain

// RawTable is the untyped content of one source file.
// An empty cell is treated as null.
type RawTable struct {
	Source  string
	Path    string
	Columns []string
	Rows    [][]string

	// SkippedLines counts malformed input lines dropped while reading
	SkippedLines int
}

// ColumnIndex returns the position of a column, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at column position idx of row.
// The second result is false when the position is absent or the cell is empty.
func (t *RawTable) Cell(row []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	v := row[idx]
	if v == "" {
		return "", false
	}
	return v, true
}

// Dataset is an ordered set of canonical records together with the column set
// they carry. A cleaned single-source dataset and the merged dataset share
// this shape.
type Dataset struct {
	Columns []string
	Records []SalesRecord
}

// NewDataset creates an empty dataset with the given columns.
func NewDataset(columns ...string) *Dataset {
	return &Dataset{Columns: append([]string(nil), columns...)}
}

// Len returns the number of records. A nil dataset has none.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// HasColumn reports whether the dataset carries the column.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// HasAll reports whether every named column is present.
func (d *Dataset) HasAll(names ...string) bool {
	for _, n := range names {
		if !d.HasColumn(n) {
			return false
		}
	}
	return true
}

// Missing returns the subset of names the dataset does not carry.
func (d *Dataset) Missing(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !d.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// AddColumn appends a column if it is not already present.
func (d *Dataset) AddColumn(name string) {
	if !d.HasColumn(name) {
		d.Columns = append(d.Columns, name)
	}
}

// Sources returns the distinct data_source values in encounter order.
func (d *Dataset) Sources() []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range d.Records {
		if !seen[r.DataSource] {
			seen[r.DataSource] = true
			out = append(out, r.DataSource)
		}
	}
	return out
}
