package fileparse

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	data := []byte(strings.Join([]string{
		"date,description,amount,type,category",
		"15/01/2024,Supermercado Extra,450.00,EXPENSE,Alimentação",
		"20/01/2024,Salário,8000.00,INCOME,",
		"",
		"25/01/2024,Uber Centro,25.50,DESPESA,Transporte",
	}, "\n"))

	result, err := Parse(data, FormatCSV)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(result.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(result.Rows))
	}
	if len(result.Errors) != 0 {
		t.Fatalf("len(Errors) = %d, want 0: %v", len(result.Errors), result.Errors)
	}
	if result.Rows[0].Description != "Supermercado Extra" {
		t.Errorf("Rows[0].Description = %q", result.Rows[0].Description)
	}
	if result.Rows[2].Category != "Transporte" {
		t.Errorf("Rows[2].Category = %q", result.Rows[2].Category)
	}
}

func TestParseCSV_RowErrors(t *testing.T) {
	var b strings.Builder
	b.WriteString("date,description,amount,type\n")
	for i := 1; i <= 10; i++ {
		date := fmt.Sprintf("%02d/01/2024", i)
		if i == 4 {
			date = "not-a-date"
		}
		fmt.Fprintf(&b, "%s,Compra %d,10.00,EXPENSE\n", date, i)
	}

	result, err := Parse([]byte(b.String()), FormatCSV)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(result.Rows) != 9 {
		t.Errorf("len(Rows) = %d, want 9", len(result.Rows))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(result.Errors))
	}
	// Row numbers count data rows, the header is excluded.
	if result.Errors[0].Row != 4 {
		t.Errorf("Errors[0].Row = %d, want 4", result.Errors[0].Row)
	}
	if !strings.Contains(result.Errors[0].Message, "invalid date") {
		t.Errorf("Errors[0].Message = %q", result.Errors[0].Message)
	}
}

func TestParseCSV_EmptyRowKeepsNumbering(t *testing.T) {
	data := []byte(strings.Join([]string{
		"date,description,amount,type",
		"01/01/2024,Compra 1,10.00,EXPENSE",
		",,,",
		"bad-date,Compra 3,10.00,EXPENSE",
	}, "\n"))

	result, err := Parse(data, FormatCSV)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(result.Rows) != 1 {
		t.Errorf("len(Rows) = %d, want 1", len(result.Rows))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(result.Errors))
	}
	// The blank record occupies data row 2, so the bad row reports as 3.
	if result.Errors[0].Row != 3 {
		t.Errorf("Errors[0].Row = %d, want 3", result.Errors[0].Row)
	}
}

func TestParseCSV_MissingColumns(t *testing.T) {
	data := []byte("date,description,type\n01/01/2024,Teste,EXPENSE\n")

	_, err := Parse(data, FormatCSV)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("error type = %T, want *StructuralError", err)
	}
	if !strings.Contains(err.Error(), "missing required columns: amount") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestParseCSV_BOMHeader(t *testing.T) {
	data := []byte("\uFEFFdate,description,amount,type\n01/01/2024,Teste,10.00,INCOME\n")

	result, err := Parse(data, FormatCSV)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(result.Rows))
	}
	if result.Headers[0] != "date" {
		t.Errorf("Headers[0] = %q, want \"date\"", result.Headers[0])
	}
}

func TestParseSpreadsheet(t *testing.T) {
	data := spreadsheetBytes(t, [][]interface{}{
		{"date", "description", "amount", "type", "category"},
		{"10/02/2024", "Aluguel escritório", "2500,00", "DESPESA", "Moradia"},
		{"15/02/2024", "Venda de serviço", "3.000,00", "RECEITA", ""},
	})

	result, err := Parse(data, FormatSpreadsheet)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(result.Rows))
	}
	if result.Rows[1].Amount.String() != "3000" {
		t.Errorf("Rows[1].Amount = %s, want 3000", result.Rows[1].Amount.String())
	}
}

func TestParseSpreadsheet_NoDataRows(t *testing.T) {
	data := spreadsheetBytes(t, [][]interface{}{
		{"date", "description", "amount", "type"},
	})

	_, err := Parse(data, FormatSpreadsheet)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "at least one data row") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestParse_UnsupportedFormat(t *testing.T) {
	if _, err := Parse([]byte("x"), Format("pdf")); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		mimeType string
		want     Format
		wantErr  bool
	}{
		{"extrato.csv", "text/csv", FormatCSV, false},
		{"extrato.csv", "application/octet-stream", FormatCSV, false},
		{"planilha.xlsx", "", FormatSpreadsheet, false},
		{"planilha.xls", "application/vnd.ms-excel", FormatSpreadsheet, false},
		{"upload.bin", mimeXLSX, FormatSpreadsheet, false},
		{"documento.pdf", "application/pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"/"+tt.mimeType, func(t *testing.T) {
			got, err := DetectFormat(tt.filename, tt.mimeType)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	data := Template()

	result, err := Parse([]byte(data), FormatCSV)
	if err != nil {
		t.Fatalf("Parse(Template()) error = %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("template produced row errors: %v", result.Errors)
	}
	if len(result.Rows) == 0 {
		t.Fatal("template has no data rows")
	}
}

func spreadsheetBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}
