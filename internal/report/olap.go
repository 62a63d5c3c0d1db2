//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package report runs fixed OLAP aggregate queries against the finished
// warehouse and renders the results as console tables. Read-only.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/quantalytics/retail-dw/internal/warehouse"
)

// Options parameterize the drill-down and slice queries.
type Options struct {
	// Country for the monthly drill-down.
	Country string

	// Pattern matched (case as stored) against product names for the
	// slice query.
	Pattern string

	// Limit bounds the roll-up and top-countries result sets.
	Limit int
}

// DefaultOptions mirror the reference report.
func DefaultOptions() Options {
	return Options{Country: "United Kingdom", Pattern: "SET", Limit: 10}
}

const rollupQuery = `
SELECT c.country, t.year, t.quarter, SUM(f.sales_amount) AS total_sales
FROM SalesFact f
JOIN TimeDim t ON f.time_id = t.time_id
JOIN CustomerDim c ON f.customer_id = c.customer_id
GROUP BY c.country, t.year, t.quarter
ORDER BY total_sales DESC
LIMIT ?`

const drilldownQuery = `
SELECT t.year, t.month, SUM(f.sales_amount) AS total_sales, SUM(f.quantity) AS total_quantity
FROM SalesFact f
JOIN TimeDim t ON f.time_id = t.time_id
JOIN CustomerDim c ON f.customer_id = c.customer_id
WHERE c.country = ?
GROUP BY t.year, t.month
ORDER BY total_sales DESC
LIMIT ?`

const sliceQuery = `
SELECT t.year, SUM(f.sales_amount) AS total_sales
FROM SalesFact f
JOIN ProductDim p ON f.product_id = p.product_id
JOIN TimeDim t ON f.time_id = t.time_id
WHERE p.product_name LIKE ?
GROUP BY t.year
ORDER BY t.year`

const topCountriesQuery = `
SELECT c.country, SUM(f.sales_amount) AS total_sales
FROM SalesFact f
JOIN CustomerDim c ON f.customer_id = c.customer_id
GROUP BY c.country
ORDER BY total_sales DESC
LIMIT ?`

// Run executes the report queries and writes the rendered tables to w.
func Run(ctx context.Context, store *warehouse.Store, opts Options, w io.Writer) error {
	sections := []struct {
		title string
		query string
		args  []any
	}{
		{
			title: "Roll-up: total sales by country and quarter",
			query: rollupQuery,
			args:  []any{opts.Limit},
		},
		{
			title: fmt.Sprintf("Drill-down: monthly sales for %s", opts.Country),
			query: drilldownQuery,
			args:  []any{opts.Country, opts.Limit},
		},
		{
			title: fmt.Sprintf("Slice: yearly sales for products matching %q", opts.Pattern),
			query: sliceQuery,
			args:  []any{"%" + opts.Pattern + "%"},
		},
		{
			title: "Top countries by total sales",
			query: topCountriesQuery,
			args:  []any{5},
		},
	}

	for _, section := range sections {
		fmt.Fprintf(w, "--- %s ---\n", section.title)
		if err := renderQuery(ctx, store, section.query, section.args, w); err != nil {
			return fmt.Errorf("report query failed (%s): %w", section.title, err)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// renderQuery runs one query and prints an aligned table of whatever
// columns it returns.
func renderQuery(ctx context.Context, store *warehouse.Store, query string, args []any, w io.Writer) error {
	rows, err := store.DB.QueryxContext(ctx, store.Rebind(query), args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))

	count := 0
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return err
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatCell(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
		count++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if count == 0 {
		fmt.Fprintln(tw, "(no rows)")
	}
	return tw.Flush()
}

func formatCell(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(value)
	case float64:
		return fmt.Sprintf("%.2f", value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
