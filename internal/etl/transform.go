//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package etl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/quantalytics/retail-dw/internal/logging"
)

// cancelPrefix marks reversed (cancelled) orders in the invoice number.
const cancelPrefix = "C"

// CleanedTransaction is one transaction line after cleaning, with all
// measures typed and the derived sales amount computed.
type CleanedTransaction struct {
	InvoiceNo   string
	StockCode   string
	ProductName string
	Quantity    int
	UnitPrice   float64
	SalesAmount float64
	CustomerID  int64
	Country     string
	InvoiceDate time.Time
}

// Date returns the calendar date of the invoice as YYYY-MM-DD.
func (c CleanedTransaction) Date() string {
	return c.InvoiceDate.Format("2006-01-02")
}

// TransformStats counts what the cleaning rules did.
type TransformStats struct {
	Input                  int
	Output                 int
	DroppedMissingCustomer int
	DroppedCancelled       int
	DroppedNonPositive     int
}

// invoiceDateLayouts are tried in order when parsing the invoice
// timestamp. The public dataset exports as "12/1/10 8:26"; CSV dumps of
// it commonly use ISO forms.
var invoiceDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/06 15:04",
	"01/02/2006 15:04",
	"1/2/2006 15:04:05",
	"2006-01-02",
}

// Transform applies the cleaning rules to the extracted set, row by row:
//
//  1. rows without a customer identifier are dropped (a customer-less
//     transaction cannot be fact-loaded),
//  2. the customer identifier is coerced to an integer natural key,
//  3. cancelled invoices (prefix "C") are dropped,
//  4. rows with non-positive quantity or unit price are dropped,
//  5. sales_amount = quantity * unit_price is derived,
//  6. the free-text description becomes the product name and the invoice
//     timestamp is parsed into a calendar-aware value.
//
// Values that fail coercion on rows the filters keep are hard
// DataQualityError failures, never silent coercions. Row numbers in
// errors are 1-based source data rows (header excluded).
func Transform(raw []RawTransaction) ([]CleanedTransaction, TransformStats, error) {
	stats := TransformStats{Input: len(raw)}
	cleaned := make([]CleanedTransaction, 0, len(raw))

	for i, row := range raw {
		rowNum := i + 1

		if isMissing(row.CustomerID) {
			stats.DroppedMissingCustomer++
			continue
		}
		customerID, err := parseCustomerID(row.CustomerID, rowNum)
		if err != nil {
			return nil, stats, err
		}

		if strings.HasPrefix(row.InvoiceNo, cancelPrefix) {
			stats.DroppedCancelled++
			continue
		}

		quantity, err := parseQuantity(row.Quantity, rowNum)
		if err != nil {
			return nil, stats, err
		}
		unitPrice, err := parsePrice(row.UnitPrice, rowNum)
		if err != nil {
			return nil, stats, err
		}
		if quantity <= 0 || unitPrice <= 0 {
			stats.DroppedNonPositive++
			continue
		}

		invoiceDate, err := parseInvoiceDate(row.InvoiceDate, rowNum)
		if err != nil {
			return nil, stats, err
		}

		cleaned = append(cleaned, CleanedTransaction{
			InvoiceNo:   row.InvoiceNo,
			StockCode:   row.StockCode,
			ProductName: row.Description,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			SalesAmount: float64(quantity) * unitPrice,
			CustomerID:  customerID,
			Country:     row.Country,
			InvoiceDate: invoiceDate,
		})
	}

	stats.Output = len(cleaned)

	logging.Info().
		Int("input", stats.Input).
		Int("output", stats.Output).
		Int("dropped_missing_customer", stats.DroppedMissingCustomer).
		Int("dropped_cancelled", stats.DroppedCancelled).
		Int("dropped_non_positive", stats.DroppedNonPositive).
		Msg("Transformed raw transactions")

	return cleaned, stats, nil
}

func isMissing(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "null", "nan", "na":
		return true
	}
	return false
}

// parseCustomerID accepts integer text and the float spelling numeric
// exports produce ("17850.0").
func parseCustomerID(value string, row int) (int64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, &DataQualityError{
			Row: row, Column: "customerid", Value: value,
			Reason: "expected an integer customer identifier",
		}
	}
	return int64(f), nil
}

func parseQuantity(value string, row int) (int, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, &DataQualityError{
			Row: row, Column: "quantity", Value: value,
			Reason: "expected an integer quantity",
		}
	}
	return int(f), nil
}

func parsePrice(value string, row int) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &DataQualityError{
			Row: row, Column: "unitprice", Value: value,
			Reason: "expected a numeric unit price",
		}
	}
	return f, nil
}

func parseInvoiceDate(value string, row int) (time.Time, error) {
	for _, layout := range invoiceDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &DataQualityError{
		Row: row, Column: "invoicedate", Value: value,
		Reason: fmt.Sprintf("unrecognized timestamp (tried %d layouts)", len(invoiceDateLayouts)),
	}
}
