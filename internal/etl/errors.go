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
	"errors"
	"fmt"
)

// ErrSourceNotFound reports a missing source file. The run aborts with no
// partial output.
var ErrSourceNotFound = errors.New("source file not found")

// SchemaError reports a source whose structure does not match
// expectations: wrong worksheet name or missing columns.
type SchemaError struct {
	Source string
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source schema mismatch in %s: %s", e.Source, e.Detail)
}

// DataQualityError reports a value that fails an invariant the cleaning
// rules do not cover, e.g. non-numeric text in a numeric column. These
// propagate as hard failures rather than being silently coerced.
type DataQualityError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("bad value %q in column %s at source row %d: %s",
		e.Value, e.Column, e.Row, e.Reason)
}

// ReferentialIntegrityError reports a fact row whose dimension key cannot
// be resolved. The load stage populates every lookup from the same
// cleaned set it loads facts from, so this indicates a programming or
// data-consistency error; it is raised, never silently dropped.
type ReferentialIntegrityError struct {
	Dimension string
	Key       string
	InvoiceNo string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("fact row (invoice %s) cannot resolve %s key %q",
		e.InvoiceNo, e.Dimension, e.Key)
}
