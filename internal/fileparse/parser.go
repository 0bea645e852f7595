package fileparse

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Parse turns raw file bytes into ProcessedFileData. Structural defects
// (unsupported format, unreadable file, missing required columns, no data
// rows) fail the whole parse; anything wrong with an individual data row
// becomes a RowError and parsing continues.
func Parse(data []byte, format Format) (*ProcessedFileData, error) {
	switch format {
	case FormatCSV:
		return parseCSV(data)
	case FormatSpreadsheet:
		return parseSpreadsheet(data)
	default:
		return nil, structuralf("unsupported format: %s", formatLabel(format))
	}
}

func parseCSV(data []byte) (*ProcessedFileData, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, structuralf("unreadable CSV file: %v", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	if missing := missingRequiredColumns(headers); len(missing) > 0 {
		return nil, structuralf("missing required columns: %s", strings.Join(missing, ", "))
	}

	result := &ProcessedFileData{Headers: headers}
	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: fmt.Sprintf("malformed CSV record: %v", err)})
			continue
		}
		if emptyRecord(record) {
			continue
		}

		fields := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(record) {
				fields[header] = record[i]
			}
		}

		appendRow(result, fields, headers, rowNum)
	}

	return result, nil
}

func parseSpreadsheet(data []byte) (*ProcessedFileData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, structuralf("unreadable spreadsheet: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, structuralf("spreadsheet has no sheets")
	}

	// Only the first sheet is read.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, structuralf("reading sheet %q: %v", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, structuralf("file must contain at least one data row")
	}

	headers := rows[0]
	if missing := missingRequiredColumns(headers); len(missing) > 0 {
		return nil, structuralf("missing required columns: %s", strings.Join(missing, ", "))
	}

	result := &ProcessedFileData{Headers: headers}
	rowNum := 0
	for _, record := range rows[1:] {
		rowNum++
		if emptyRecord(record) {
			continue
		}

		fields := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(record) {
				fields[header] = record[i]
			}
		}

		appendRow(result, fields, headers, rowNum)
	}

	return result, nil
}

// appendRow normalizes one data row, recording either the row or its error.
func appendRow(result *ProcessedFileData, fields map[string]string, headers []string, rowNum int) {
	row, err := NormalizeRow(fields, headers)
	if err != nil {
		result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
		return
	}
	result.Rows = append(result.Rows, row)
}

func emptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
