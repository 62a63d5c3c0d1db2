//-------------------------------------------------------------------------
//
// Retail DW Pipeline
//
// Copyright (c) 2025 - 2026, Quantalytics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen generates synthetic raw transaction data so the
// pipeline can be exercised without the public retail dataset. The
// generated file deliberately includes the dirty rows the cleaning rules
// exist for: cancellations, missing customer ids and non-positive
// quantities.
package datagen

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Dirty-row rates, as fractions of generated lines.
const (
	cancelledRate       = 0.02
	missingCustomerRate = 0.02
	nonPositiveRate     = 0.01
)

// countries weight the generated market roughly like the reference
// dataset: mostly United Kingdom.
var countries = []string{
	"United Kingdom", "United Kingdom", "United Kingdom", "United Kingdom",
	"United Kingdom", "United Kingdom", "Germany", "France",
	"Netherlands", "Ireland", "Spain", "Australia",
}

// Transaction is one generated source line, already formatted the way
// the source table carries it.
type Transaction struct {
	InvoiceNo   string
	StockCode   string
	Description string
	Quantity    string
	InvoiceDate string
	UnitPrice   string
	CustomerID  string
	Country     string
}

type product struct {
	stockCode   string
	description string
	unitPrice   float64
}

type customer struct {
	id      int
	country string
}

// Generator produces synthetic transactions from fixed customer and
// product pools, so repeated invoices and stock codes occur the way the
// RFM and dimension logic expects.
type Generator struct {
	faker     *gofakeit.Faker
	products  []product
	customers []customer
	start     time.Time

	invoiceSeq int
}

// NewGenerator creates a Generator. The same seed yields the same
// dataset.
func NewGenerator(seed uint64) *Generator {
	f := gofakeit.New(seed)

	products := make([]product, 400)
	for i := range products {
		products[i] = product{
			stockCode:   fmt.Sprintf("%05d%s", f.Number(10000, 99999), f.RandomString([]string{"", "", "A", "B"})),
			description: f.ProductName(),
			unitPrice:   f.Price(0.25, 40),
		}
	}

	customers := make([]customer, 500)
	for i := range customers {
		customers[i] = customer{
			id:      f.Number(12000, 18999),
			country: f.RandomString(countries),
		}
	}

	return &Generator{
		faker:     f,
		products:  products,
		customers: customers,
		start:     time.Date(2010, 12, 1, 8, 0, 0, 0, time.UTC),
		// Invoice numbers count up from the reference dataset's range.
		invoiceSeq: 536365,
	}
}

// Transactions generates n source lines grouped into invoices of 1-8
// lines each, spread across a one-year window.
func (g *Generator) Transactions(n int) []Transaction {
	rows := make([]Transaction, 0, n)
	for len(rows) < n {
		rows = append(rows, g.invoice(n-len(rows))...)
	}
	return rows[:n]
}

// invoice generates one invoice worth of lines, at most limit.
func (g *Generator) invoice(limit int) []Transaction {
	lines := g.faker.Number(1, 8)
	if lines > limit {
		lines = limit
	}

	invoiceNo := fmt.Sprintf("%d", g.invoiceSeq)
	g.invoiceSeq++
	if g.faker.Float64Range(0, 1) < cancelledRate {
		invoiceNo = "C" + invoiceNo
	}

	cust := g.customers[g.faker.Number(0, len(g.customers)-1)]
	customerID := fmt.Sprintf("%d", cust.id)
	if g.faker.Float64Range(0, 1) < missingCustomerRate {
		customerID = ""
	}

	when := g.start.Add(time.Duration(g.faker.Number(0, 365*24*60)) * time.Minute)

	rows := make([]Transaction, lines)
	for i := range rows {
		p := g.products[g.faker.Number(0, len(g.products)-1)]
		quantity := g.faker.Number(1, 24)
		price := p.unitPrice
		if g.faker.Float64Range(0, 1) < nonPositiveRate {
			quantity = -quantity
		}

		rows[i] = Transaction{
			InvoiceNo:   invoiceNo,
			StockCode:   p.stockCode,
			Description: p.description,
			Quantity:    fmt.Sprintf("%d", quantity),
			InvoiceDate: when.Format("2006-01-02 15:04:05"),
			UnitPrice:   fmt.Sprintf("%.2f", price),
			CustomerID:  customerID,
			Country:     cust.country,
		}
	}
	return rows
}
