// Package analytics computes the descriptive reports of a merged sales
// dataset: headline statistics, monthly and weekday revenue, and top
// products and countries.
//
// Every report declares the columns it needs. Analyzer.Run skips a report
// whose columns are missing instead of failing, and records why. All
// computations are pure functions of the dataset; writing tables and charts
// is left to the exporter and charts packages.
package analytics
