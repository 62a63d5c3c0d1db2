//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package etl implements the extract/transform/load pipeline that turns
// raw retail transaction records into the star-schema warehouse.
package etl

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quantalytics/retail-dw/internal/logging"
)

// RawTransaction is one source transaction line, untyped. Values stay as
// strings until the transform stage coerces them; that is where
// DataQualityError lives.
type RawTransaction struct {
	InvoiceNo   string
	StockCode   string
	Description string
	Quantity    string
	InvoiceDate string
	UnitPrice   string
	CustomerID  string
	Country     string
}

// requiredColumns are the canonical (normalized) source column names.
var requiredColumns = []string{
	"invoiceno", "stockcode", "description", "quantity",
	"invoicedate", "unitprice", "customerid", "country",
}

// normalizeColumn maps a source header to its canonical form: lowercase
// with spaces and underscores removed, so "Invoice No", "InvoiceNo" and
// "invoice_no" all resolve to "invoiceno".
func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "_", "")
	return name
}

// Extract reads the entire source transaction table into memory. The
// format is chosen by extension: .xlsx/.xlsm via excelize (sheet selects
// the worksheet), anything else as headered CSV. A missing file returns
// ErrSourceNotFound; a wrong sheet name or missing column returns a
// SchemaError. No partial extraction is attempted.
func Extract(path, sheet string) ([]RawTransaction, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat source: %w", err)
	}

	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(path, sheet)
	default:
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, &SchemaError{Source: path, Detail: "no header row"}
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[normalizeColumn(name)] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, &SchemaError{
				Source: path,
				Detail: fmt.Sprintf("missing column %q", required),
			}
		}
	}

	cell := func(row []string, name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rows := make([]RawTransaction, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, RawTransaction{
			InvoiceNo:   cell(rec, "invoiceno"),
			StockCode:   cell(rec, "stockcode"),
			Description: cell(rec, "description"),
			Quantity:    cell(rec, "quantity"),
			InvoiceDate: cell(rec, "invoicedate"),
			UnitPrice:   cell(rec, "unitprice"),
			CustomerID:  cell(rec, "customerid"),
			Country:     cell(rec, "country"),
		})
	}

	logging.Info().
		Str("source", path).
		Int("rows", len(rows)).
		Msg("Extracted raw transactions")

	return rows, nil
}

func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &SchemaError{
			Source: path,
			Detail: fmt.Sprintf("worksheet %q: %v", sheet, err),
		}
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read source %s: %w", path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
