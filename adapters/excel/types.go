package excel

import (
	"path/filepath"
	"strings"
)

// Format identifies a tabular input layout
type Format string

const (
	FormatCSV   Format = "csv"
	FormatLines Format = "lines"
	FormatXLSX  Format = "xlsx"
	FormatJSON  Format = "json"
)

// blankCell marks a missing value in the lines format
const blankCell = "-"

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatLines, FormatXLSX, FormatJSON:
		return f, true
	}
	return "", false
}

// FormatFromPath infers the format from a file extension. Unknown
// extensions and stdin ("-") read as CSV.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".json":
		return FormatJSON
	case ".txt", ".dat", ".tsv":
		return FormatLines
	}
	return FormatCSV
}
