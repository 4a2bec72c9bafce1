// Package exporter serializes cleaned tables for download: a consolidated
// multi-sheet Excel workbook (summary sheet first, one sheet per loaded
// dataset) and single-table CSV with a UTF-8 BOM for Excel compatibility.
package exporter
