package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is a file format rows can be exported to
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat converts a format name to a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
	}
}

// FormatFromPath picks the format from a file extension, defaulting to CSV
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// WriteRows writes rows to w in the given format
func WriteRows(w io.Writer, format Format, columns []string, rows [][]string) error {
	switch format {
	case FormatJSON:
		return WriteRowsJSON(w, columns, rows)
	default:
		return WriteRowsCSV(w, columns, rows)
	}
}

// ExportRows writes rows to a file in the given format
func ExportRows(format Format, columns []string, rows [][]string, path string) error {
	// Create the file
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", format, err)
	}
	defer func() { _ = file.Close() }()

	return WriteRows(file, format, columns, rows)
}

// WriteRowsCSV writes a header line followed by one line per row
func WriteRowsCSV(w io.Writer, columns []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	// Write header
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteRowsJSON writes rows as a JSON array of objects keyed by column name,
// keeping the column order
func WriteRowsJSON(w io.Writer, columns []string, rows [][]string) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			val := ""
			if j < len(row) {
				val = row[j]
			}
			key, _ := json.Marshal(col)
			value, _ := json.Marshal(val)
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	out.WriteByte('\n')

	if _, err := out.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// ExportToJSON writes any value to a pretty printed JSON file
func ExportToJSON(v interface{}, path string) error {
	// Marshal to JSON with pretty printing
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}
