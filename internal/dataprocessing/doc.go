// Package dataprocessing turns heterogeneous retail exports into canonical
// sales datasets. It covers the whole per-file lifecycle from raw CSV or
// Excel ingestion to a cleaned, merged dataset.
//
// # Architecture
//
// The package is organized into these components:
//
// 1. Reader: loads CSV (Latin-1 by default, lenient about malformed lines) and XLSX files
// 2. Normalizer: maps inconsistent header spellings onto the canonical schema
// 3. Cleaner: applies the row rules and derives total_price and date parts
// 4. Merger: concatenates cleaned datasets over the union of their columns
// 5. Loader: reads persisted cleaned or combined datasets back
// 6. Inspect: profiles a raw table for the inspect command
//
// # Usage
//
//	reader := dataprocessing.NewReader(logger)
//	raw, err := reader.ReadTable("data/raw/online_retail.csv", "", dataprocessing.DefaultReadOptions())
//	if err != nil {
//	    return err
//	}
//
//	table := dataprocessing.NewNormalizer(logger).Normalize(raw)
//	cleaned, stats := dataprocessing.NewCleaner(dataprocessing.DefaultCleanOptions(), logger).Clean(table)
//
//	merged := dataprocessing.NewMerger(logger).Merge(cleaned, other)
//
// # Null Handling
//
// Empty cells are null. A value that fails to parse is also null, except
// that rows with a null or invalid quantity or unit_price are removed by the
// corresponding rule. Cleaning never fails because an optional column is
// missing; the rule is skipped and a warning is logged.
package dataprocessing
