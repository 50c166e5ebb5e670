// Package sheet reads spreadsheet exports into ordered rows.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-importer/internal/fields"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNoHeader is returned for input without a header row.
var ErrNoHeader = errors.New("csv has no header row")

// ReadFile reads the CSV file at path.
func ReadFile(path string) ([]fields.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV with a header row into rows. A leading byte order mark is
// dropped, fully blank rows are skipped, and short rows are padded with
// empty values.
func Read(r io.Reader) ([]fields.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []fields.Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if blank(record) {
			continue
		}
		if len(record) > len(header) {
			log.Warn("Row has more cells than the header; extra cells ignored", "line", line, "cells", len(record))
		}

		row := fields.Row{Line: line, Cells: make([]fields.Cell, len(header))}
		for i, h := range header {
			row.Cells[i].Header = h
			if i < len(record) {
				row.Cells[i].Value = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
