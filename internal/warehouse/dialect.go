//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import "strings"

// Dialect describes one supported warehouse backend. The star schema is
// identical in both; only key generation and column types differ.
type Dialect struct {
	// Name identifies the dialect: "sqlite" or "postgres".
	Name string

	// Driver is the database/sql driver name to open.
	Driver string

	// createSchema holds one DDL statement per entry, executed in order.
	// The pgx stdlib driver rejects multi-statement Exec, so every
	// dialect keeps its DDL as individual statements.
	createSchema []string

	// dropSchema drops the tables in reverse dependency order.
	dropSchema []string

	// truncate deletes all rows, fact table first, and resets the
	// surrogate-key sequences so a reload assigns keys from 1 again.
	truncate []string
}

// DialectFor picks the dialect from the warehouse location. A PostgreSQL
// URL selects the pgx backend; anything else is treated as a SQLite file
// path.
func DialectFor(location string) Dialect {
	if strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://") {
		return postgresDialect
	}
	return sqliteDialect
}

var sqliteDialect = Dialect{
	Name:   "sqlite",
	Driver: "sqlite",
	createSchema: []string{
		`CREATE TABLE IF NOT EXISTS CustomerDim (
    customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
    cust_raw_id INTEGER,
    name        TEXT,
    gender      TEXT,
    age         INTEGER,
    country     TEXT,
    city        TEXT,
    segment     TEXT
)`,
		`CREATE TABLE IF NOT EXISTS ProductDim (
    product_id   INTEGER PRIMARY KEY AUTOINCREMENT,
    stock_code   TEXT,
    product_name TEXT,
    category     TEXT,
    brand        TEXT,
    unit_price   REAL
)`,
		`CREATE TABLE IF NOT EXISTS TimeDim (
    time_id    INTEGER PRIMARY KEY AUTOINCREMENT,
    date       TEXT,
    day        INTEGER,
    month      INTEGER,
    quarter    INTEGER,
    year       INTEGER,
    is_weekend INTEGER
)`,
		`CREATE TABLE IF NOT EXISTS SalesFact (
    sales_id     INTEGER PRIMARY KEY AUTOINCREMENT,
    invoice_no   TEXT,
    product_id   INTEGER,
    customer_id  INTEGER,
    time_id      INTEGER,
    quantity     INTEGER,
    unit_price   REAL,
    sales_amount REAL,
    country      TEXT,
    FOREIGN KEY(product_id) REFERENCES ProductDim(product_id),
    FOREIGN KEY(customer_id) REFERENCES CustomerDim(customer_id),
    FOREIGN KEY(time_id) REFERENCES TimeDim(time_id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_fact_time ON SalesFact(time_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_fact_customer ON SalesFact(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_fact_product ON SalesFact(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_time_dim_date ON TimeDim(date)`,
	},
	dropSchema: []string{
		`DROP TABLE IF EXISTS SalesFact`,
		`DROP TABLE IF EXISTS TimeDim`,
		`DROP TABLE IF EXISTS ProductDim`,
		`DROP TABLE IF EXISTS CustomerDim`,
	},
	truncate: []string{
		`DELETE FROM SalesFact`,
		`DELETE FROM TimeDim`,
		`DELETE FROM ProductDim`,
		`DELETE FROM CustomerDim`,
		// AUTOINCREMENT counters live in sqlite_sequence and survive
		// DELETE; reset them so reloaded keys start at 1.
		`DELETE FROM sqlite_sequence
     WHERE name IN ('SalesFact', 'TimeDim', 'ProductDim', 'CustomerDim')`,
	},
}

var postgresDialect = Dialect{
	Name:   "postgres",
	Driver: "pgx",
	createSchema: []string{
		`CREATE TABLE IF NOT EXISTS CustomerDim (
    customer_id BIGSERIAL PRIMARY KEY,
    cust_raw_id BIGINT,
    name        TEXT,
    gender      TEXT,
    age         INTEGER,
    country     TEXT,
    city        TEXT,
    segment     TEXT
)`,
		`CREATE TABLE IF NOT EXISTS ProductDim (
    product_id   BIGSERIAL PRIMARY KEY,
    stock_code   TEXT,
    product_name TEXT,
    category     TEXT,
    brand        TEXT,
    unit_price   DOUBLE PRECISION
)`,
		`CREATE TABLE IF NOT EXISTS TimeDim (
    time_id    BIGSERIAL PRIMARY KEY,
    date       TEXT,
    day        INTEGER,
    month      INTEGER,
    quarter    INTEGER,
    year       INTEGER,
    is_weekend INTEGER
)`,
		`CREATE TABLE IF NOT EXISTS SalesFact (
    sales_id     BIGSERIAL PRIMARY KEY,
    invoice_no   TEXT,
    product_id   BIGINT REFERENCES ProductDim(product_id),
    customer_id  BIGINT REFERENCES CustomerDim(customer_id),
    time_id      BIGINT REFERENCES TimeDim(time_id),
    quantity     INTEGER,
    unit_price   DOUBLE PRECISION,
    sales_amount DOUBLE PRECISION,
    country      TEXT
)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_fact_time ON SalesFact(time_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_fact_customer ON SalesFact(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_fact_product ON SalesFact(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_time_dim_date ON TimeDim(date)`,
	},
	dropSchema: []string{
		`DROP TABLE IF EXISTS SalesFact CASCADE`,
		`DROP TABLE IF EXISTS TimeDim CASCADE`,
		`DROP TABLE IF EXISTS ProductDim CASCADE`,
		`DROP TABLE IF EXISTS CustomerDim CASCADE`,
	},
	truncate: []string{
		`TRUNCATE SalesFact, TimeDim, ProductDim, CustomerDim RESTART IDENTITY`,
	},
}
