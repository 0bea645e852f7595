package fileparse

import (
	"fmt"
	"strings"
)

// Format identifies how raw file bytes should be parsed.
type Format string

const (
	FormatCSV         Format = "csv"
	FormatSpreadsheet Format = "spreadsheet"
)

// MIME types accepted for uploads.
const (
	mimeCSV  = "text/csv"
	mimeXLS  = "application/vnd.ms-excel"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// MaxUploadSize is the largest accepted file size in bytes.
const MaxUploadSize = 10 << 20 // 10 MB

// DetectFormat derives the parse format from the file name and declared
// MIME type. Unknown combinations are a structural error.
func DetectFormat(filename, mimeType string) (Format, error) {
	lower := strings.ToLower(filename)

	if strings.HasSuffix(lower, ".csv") || mimeType == mimeCSV {
		return FormatCSV, nil
	}

	if strings.HasSuffix(lower, ".xlsx") ||
		strings.HasSuffix(lower, ".xls") ||
		mimeType == mimeXLSX ||
		mimeType == mimeXLS {
		return FormatSpreadsheet, nil
	}

	return "", structuralf("unsupported format: %s", filename)
}

// AllowedUpload reports whether the file name or MIME type is acceptable
// for upload, mirroring DetectFormat without constructing an error.
func AllowedUpload(filename, mimeType string) bool {
	_, err := DetectFormat(filename, mimeType)
	return err == nil
}

// formatLabel is used in error messages.
func formatLabel(f Format) string {
	switch f {
	case FormatCSV:
		return "CSV"
	case FormatSpreadsheet:
		return "spreadsheet"
	default:
		return fmt.Sprintf("unknown (%s)", string(f))
	}
}
