// Package ingest reads delimited tabular files into raw observations for
// the analysis pipeline. Malformed rows are dropped with a warning and
// counted, never failing the whole run; the only fatal condition is a
// column-role configuration no computation can work with.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rankpulse/rankpulse/internal/domain/series"
)

// ErrColumnConflict is returned when the same column is assigned to two
// distinct roles.
var ErrColumnConflict = errors.New("the same column is assigned to more than one role")

// Options assigns column roles for extraction.
type Options struct {
	DateColumn    string
	PagesColumn   string
	TrafficColumn string
}

func (o Options) validate() error {
	if o.DateColumn == "" || o.PagesColumn == "" || o.TrafficColumn == "" {
		return errors.New("date, pages and traffic columns must all be assigned")
	}
	if o.DateColumn == o.PagesColumn || o.DateColumn == o.TrafficColumn || o.PagesColumn == o.TrafficColumn {
		return ErrColumnConflict
	}
	return nil
}

// RawTable is a parsed delimited file: the header row plus all data rows,
// still untyped. Uploads are parsed once into a RawTable; column roles
// can then be applied repeatedly without re-reading the file.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Dataset is a RawTable with column roles applied: parsed observations in
// input order, plus the bounds of the parsed date column for defaulting a
// date-range filter.
type Dataset struct {
	Observations []series.Observation
	Dropped      int
	MinDate      time.Time
	MaxDate      time.Time
}

// Parse reads a delimited file with a header row. A zero delimiter means
// comma. Rows with a deviating field count are tolerated and padded or
// truncated against the header.
func Parse(r io.Reader, delimiter rune) (*RawTable, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	table := &RawTable{Columns: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read data row: %w", err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ParseFile parses a delimited file from disk.
func ParseFile(path string, delimiter rune) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()
	return Parse(f, delimiter)
}

// Extract applies column roles to the table. Rows with an unparseable
// date or a negative/non-numeric count are dropped and counted; the run
// only fails when the role assignment itself is unusable.
func (t *RawTable) Extract(opts Options) (*Dataset, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	dateIdx, err := t.columnIndex(opts.DateColumn)
	if err != nil {
		return nil, err
	}
	pagesIdx, err := t.columnIndex(opts.PagesColumn)
	if err != nil {
		return nil, err
	}
	trafficIdx, err := t.columnIndex(opts.TrafficColumn)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	for i, row := range t.Rows {
		date, ok := parseDate(field(row, dateIdx))
		if !ok {
			ds.Dropped++
			log.Warn().Int("row", i+2).Str("value", field(row, dateIdx)).Msg("Dropping row with unparseable date")
			continue
		}
		pages, ok := parseCount(field(row, pagesIdx))
		if !ok {
			ds.Dropped++
			log.Warn().Int("row", i+2).Str("value", field(row, pagesIdx)).Msg("Dropping row with invalid page count")
			continue
		}
		traffic, ok := parseCount(field(row, trafficIdx))
		if !ok {
			ds.Dropped++
			log.Warn().Int("row", i+2).Str("value", field(row, trafficIdx)).Msg("Dropping row with invalid traffic count")
			continue
		}

		ds.Observations = append(ds.Observations, series.Observation{
			Date:    date,
			Pages:   pages,
			Traffic: traffic,
		})
		if ds.MinDate.IsZero() || date.Before(ds.MinDate) {
			ds.MinDate = date
		}
		if ds.MaxDate.IsZero() || date.After(ds.MaxDate) {
			ds.MaxDate = date
		}
	}

	if ds.Dropped > 0 {
		log.Info().Int("dropped", ds.Dropped).Int("kept", len(ds.Observations)).Msg("Ingestion dropped malformed rows")
	}
	return ds, nil
}

// Load parses a file and applies column roles in one step.
func Load(path string, delimiter rune, opts Options) (*Dataset, error) {
	table, err := ParseFile(path, delimiter)
	if err != nil {
		return nil, err
	}
	return table.Extract(opts)
}

func (t *RawTable) columnIndex(name string) (int, error) {
	for i, col := range t.Columns {
		if col == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in header (have %s)", name, strings.Join(t.Columns, ", "))
}

func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// dateLayouts are tried in order. Covers ISO dates, RFC3339 timestamps
// and the slash formats common in exported analytics reports.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseCount parses a non-negative numeric cell, tolerating thousands
// separators as exported by spreadsheet tools.
func parseCount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
