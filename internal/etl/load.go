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
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/quantalytics/retail-dw/internal/logging"
	"github.com/quantalytics/retail-dw/internal/warehouse"
)

// LoadResult reports what one load wrote.
type LoadResult struct {
	TimeRows     int64
	CustomerRows int64
	ProductRows  int64
	FactRows     int64
}

// Loader writes cleaned transactions into the warehouse. Dimensions load
// before the fact table because fact foreign keys must already exist;
// surrogate keys are storage-assigned, so every dimension is re-read
// after insert to build its lookup rather than trusting client-side
// sequence numbers.
type Loader struct {
	store            *warehouse.Store
	progressInterval int64
}

// NewLoader creates a Loader. progressInterval controls how often fact
// load progress is logged, in rows; <= 0 disables progress logging.
func NewLoader(store *warehouse.Store, progressInterval int64) *Loader {
	return &Loader{store: store, progressInterval: progressInterval}
}

// Load writes the cleaned set as a single unit of work: all inserts
// happen in one transaction committed at the end, so a failed load leaves
// the warehouse untouched.
func (l *Loader) Load(ctx context.Context, rows []CleanedTransaction) (LoadResult, error) {
	var result LoadResult

	tx, err := l.store.DB.BeginTxx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin load transaction: %w", err)
	}
	defer tx.Rollback()

	timeLookup, err := l.loadTimeDim(ctx, tx, rows)
	if err != nil {
		return result, fmt.Errorf("failed to load TimeDim: %w", err)
	}
	result.TimeRows = int64(len(timeLookup))

	customerLookup, err := l.loadCustomerDim(ctx, tx, rows)
	if err != nil {
		return result, fmt.Errorf("failed to load CustomerDim: %w", err)
	}
	result.CustomerRows = int64(len(customerLookup))

	productLookup, err := l.loadProductDim(ctx, tx, rows)
	if err != nil {
		return result, fmt.Errorf("failed to load ProductDim: %w", err)
	}
	result.ProductRows = int64(len(productLookup))

	factRows, err := l.loadSalesFact(ctx, tx, rows, timeLookup, customerLookup, productLookup)
	if err != nil {
		return result, fmt.Errorf("failed to load SalesFact: %w", err)
	}
	result.FactRows = factRows

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit load: %w", err)
	}

	logging.Info().
		Int64("time_rows", result.TimeRows).
		Int64("customer_rows", result.CustomerRows).
		Int64("product_rows", result.ProductRows).
		Int64("fact_rows", result.FactRows).
		Msg("Warehouse load complete")

	return result, nil
}

// loadTimeDim inserts one row per distinct calendar date, ascending, so
// a fresh warehouse gets a dense 1-based time_id sequence in date order.
// The date -> time_id lookup is built by re-reading the table.
func (l *Loader) loadTimeDim(ctx context.Context, tx *sqlx.Tx, rows []CleanedTransaction) (map[string]int64, error) {
	seen := make(map[string]time.Time)
	for _, row := range rows {
		seen[row.Date()] = row.InvoiceDate
	}

	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	insert := tx.Rebind(`
        INSERT INTO TimeDim (date, day, month, quarter, year, is_weekend)
        VALUES (?, ?, ?, ?, ?, ?)`)
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, date := range dates {
		t := seen[date]
		weekend := 0
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = 1
		}
		quarter := (int(t.Month())-1)/3 + 1
		if _, err := stmt.ExecContext(ctx,
			date, t.Day(), int(t.Month()), quarter, t.Year(), weekend); err != nil {
			return nil, err
		}
	}

	lookup := make(map[string]int64, len(dates))
	rowsx, err := tx.QueryxContext(ctx, "SELECT time_id, date FROM TimeDim")
	if err != nil {
		return nil, err
	}
	defer rowsx.Close()
	for rowsx.Next() {
		var id int64
		var date string
		if err := rowsx.Scan(&id, &date); err != nil {
			return nil, err
		}
		lookup[date] = id
	}
	return lookup, rowsx.Err()
}

// loadCustomerDim inserts one row per distinct raw customer id, first
// observed country winning, then re-reads the assigned surrogate keys.
func (l *Loader) loadCustomerDim(ctx context.Context, tx *sqlx.Tx, rows []CleanedTransaction) (map[int64]int64, error) {
	countries := make(map[int64]string)
	order := make([]int64, 0)
	for _, row := range rows {
		if _, ok := countries[row.CustomerID]; !ok {
			countries[row.CustomerID] = row.Country
			order = append(order, row.CustomerID)
		}
	}

	insert := tx.Rebind(`INSERT INTO CustomerDim (cust_raw_id, country) VALUES (?, ?)`)
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, rawID := range order {
		if _, err := stmt.ExecContext(ctx, rawID, countries[rawID]); err != nil {
			return nil, err
		}
	}

	lookup := make(map[int64]int64, len(order))
	rowsx, err := tx.QueryxContext(ctx, "SELECT customer_id, cust_raw_id FROM CustomerDim")
	if err != nil {
		return nil, err
	}
	defer rowsx.Close()
	for rowsx.Next() {
		var id, rawID int64
		if err := rowsx.Scan(&id, &rawID); err != nil {
			return nil, err
		}
		lookup[rawID] = id
	}
	return lookup, rowsx.Err()
}

// loadProductDim inserts one row per distinct stock code. The first
// occurrence in the cleaned batch wins the name and unit price; category
// and brand are placeholders the source data lacks.
func (l *Loader) loadProductDim(ctx context.Context, tx *sqlx.Tx, rows []CleanedTransaction) (map[string]int64, error) {
	type product struct {
		name  string
		price float64
	}
	first := make(map[string]product)
	order := make([]string, 0)
	for _, row := range rows {
		if _, ok := first[row.StockCode]; !ok {
			first[row.StockCode] = product{name: row.ProductName, price: row.UnitPrice}
			order = append(order, row.StockCode)
		}
	}

	insert := tx.Rebind(`
        INSERT INTO ProductDim (stock_code, product_name, unit_price, category, brand)
        VALUES (?, ?, ?, 'Giftware', 'N/A')`)
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, code := range order {
		p := first[code]
		if _, err := stmt.ExecContext(ctx, code, p.name, p.price); err != nil {
			return nil, err
		}
	}

	lookup := make(map[string]int64, len(order))
	rowsx, err := tx.QueryxContext(ctx, "SELECT product_id, stock_code FROM ProductDim")
	if err != nil {
		return nil, err
	}
	defer rowsx.Close()
	for rowsx.Next() {
		var id int64
		var code string
		if err := rowsx.Scan(&id, &code); err != nil {
			return nil, err
		}
		lookup[code] = id
	}
	return lookup, rowsx.Err()
}

// loadSalesFact resolves the three foreign keys for every cleaned row and
// appends the facts. The lookups were built from the same cleaned set, so
// a miss is a ReferentialIntegrityError, not a droppable row.
func (l *Loader) loadSalesFact(
	ctx context.Context,
	tx *sqlx.Tx,
	rows []CleanedTransaction,
	timeLookup map[string]int64,
	customerLookup map[int64]int64,
	productLookup map[string]int64,
) (int64, error) {
	insert := tx.Rebind(`
        INSERT INTO SalesFact
            (invoice_no, product_id, customer_id, time_id, quantity, unit_price, sales_amount, country)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		timeID, ok := timeLookup[row.Date()]
		if !ok {
			return inserted, &ReferentialIntegrityError{
				Dimension: "TimeDim", Key: row.Date(), InvoiceNo: row.InvoiceNo,
			}
		}
		customerID, ok := customerLookup[row.CustomerID]
		if !ok {
			return inserted, &ReferentialIntegrityError{
				Dimension: "CustomerDim",
				Key:       fmt.Sprintf("%d", row.CustomerID),
				InvoiceNo: row.InvoiceNo,
			}
		}
		productID, ok := productLookup[row.StockCode]
		if !ok {
			return inserted, &ReferentialIntegrityError{
				Dimension: "ProductDim", Key: row.StockCode, InvoiceNo: row.InvoiceNo,
			}
		}

		if _, err := stmt.ExecContext(ctx,
			row.InvoiceNo, productID, customerID, timeID,
			row.Quantity, row.UnitPrice, row.SalesAmount, row.Country); err != nil {
			return inserted, err
		}
		inserted++

		if l.progressInterval > 0 && inserted%l.progressInterval == 0 {
			logging.Info().
				Str("table", "SalesFact").
				Int64("rows", inserted).
				Int("total", len(rows)).
				Msg("Loading facts")
		}
	}
	return inserted, nil
}
