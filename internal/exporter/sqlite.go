package exporter

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"salesreport/internal/dataprocessing"
	"salesreport/pkg/contracts/domain"
)

// SQLiteExporter appends merged datasets to a SQLite table. Every run adds
// its rows tagged with the run id, earlier runs are left in place.
type SQLiteExporter struct {
	path   string
	table  string
	logger *slog.Logger
}

// NewSQLiteExporter creates an exporter for the database at path. The table
// name must already be validated as alphanumeric.
func NewSQLiteExporter(path, table string, logger *slog.Logger) *SQLiteExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteExporter{path: path, table: table, logger: logger}
}

// Path returns the database location
func (e *SQLiteExporter) Path() string {
	return e.path
}

func (e *SQLiteExporter) schema() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id TEXT NOT NULL,
	invoice_no TEXT,
	stock_code TEXT,
	description TEXT,
	quantity INTEGER,
	unit_price NUMERIC,
	invoice_date TEXT,
	customer_id TEXT,
	country TEXT,
	total_price NUMERIC,
	data_source TEXT NOT NULL,
	extras_json TEXT
)`, e.table)
}

// Export writes every record of ds in a single transaction and returns the
// number of rows inserted.
func (e *SQLiteExporter) Export(ctx context.Context, runID string, ds *domain.Dataset) (int, error) {
	if ds == nil {
		return 0, fmt.Errorf("no dataset to export")
	}

	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", e.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, e.schema()); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", e.table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (
	run_id, invoice_no, stock_code, description, quantity, unit_price,
	invoice_date, customer_id, country, total_price, data_source, extras_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, e.table))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	extras := extraColumns(ds.Columns)

	for i := range ds.Records {
		rec := &ds.Records[i]

		extrasJSON, err := encodeExtras(rec, extras)
		if err != nil {
			return 0, fmt.Errorf("failed to encode extras for row %d: %w", i, err)
		}

		var quantity sql.NullInt64
		if q, ok := rec.Quantity.Get(); ok {
			quantity = sql.NullInt64{Int64: q, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			runID,
			nullField(rec, domain.FieldInvoiceNo),
			nullField(rec, domain.FieldStockCode),
			nullField(rec, domain.FieldDescription),
			quantity,
			nullField(rec, domain.FieldUnitPrice),
			nullField(rec, domain.FieldInvoiceDate),
			nullField(rec, domain.FieldCustomerID),
			nullField(rec, domain.FieldCountry),
			nullField(rec, domain.FieldTotalPrice),
			rec.DataSource,
			extrasJSON,
		); err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	e.logger.Info("Dataset exported to SQLite",
		slog.String("path", e.path),
		slog.String("table", e.table),
		slog.String("run_id", runID),
		slog.Int("rows", ds.Len()))

	return ds.Len(), nil
}

// extraColumns returns the dataset columns that have no typed column in the table.
func extraColumns(columns []string) []string {
	var out []string
	for _, c := range columns {
		if !domain.IsCanonical(c) {
			out = append(out, c)
		}
	}
	return out
}

func encodeExtras(rec *domain.SalesRecord, columns []string) (sql.NullString, error) {
	values := make(map[string]string)
	for _, c := range columns {
		if v, ok := dataprocessing.FieldValue(rec, c); ok {
			values[c] = v
		}
	}
	if len(values) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// nullField returns a sql.NullString for an optional record field.
func nullField(rec *domain.SalesRecord, col string) sql.NullString {
	v, ok := dataprocessing.FieldValue(rec, col)
	if !ok {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
