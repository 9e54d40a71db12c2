package esios

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
)

const (
	// DumpFile receives the full JSON response.
	DumpFile = "dump.json"
	// DataFile receives the indicator values as CSV.
	DataFile = "data.csv"
)

// valueColumns fixes the order of the well-known value fields; unknown
// fields follow in lexical order.
var valueColumns = []string{"value", "datetime", "datetime_utc", "tz_time", "geo_id", "geo_name"}

// Persist writes resp to dir as DumpFile and DataFile, creating dir if
// needed. The CSV starts with an unnamed row-number column followed by one
// column per value field.
func Persist(dir string, resp *Response) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("esios: create data dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, DumpFile), resp.Raw, 0o644); err != nil {
		return fmt.Errorf("esios: write %s: %w", DumpFile, err)
	}

	f, err := os.Create(filepath.Join(dir, DataFile))
	if err != nil {
		return fmt.Errorf("esios: create %s: %w", DataFile, err)
	}
	defer f.Close()

	if err := WriteCSV(f, resp.Indicator.Values); err != nil {
		return fmt.Errorf("esios: write %s: %w", DataFile, err)
	}
	return f.Close()
}

// WriteCSV writes values as CSV to w.
func WriteCSV(w io.Writer, values []map[string]any) error {
	columns := columnsOf(values)

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{""}, columns...)); err != nil {
		return err
	}

	record := make([]string, len(columns)+1)
	for i, row := range values {
		record[0] = strconv.Itoa(i)
		for j, col := range columns {
			record[j+1] = formatCell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func columnsOf(values []map[string]any) []string {
	seen := make(map[string]bool)
	for _, row := range values {
		for k := range row {
			seen[k] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for _, c := range valueColumns {
		if seen[c] {
			columns = append(columns, c)
			delete(seen, c)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	slices.Sort(rest)
	return append(columns, rest...)
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
