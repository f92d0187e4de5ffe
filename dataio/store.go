package dataio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a table file format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// DefaultTableName is the SQLite table used when none is given.
const DefaultTableName = "fitres"

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// splitTable is the "split" orientation: column names plus row values.
// Non-finite values are encoded as null and read back as NaN.
type splitTable struct {
	Columns []string     `json:"columns" yaml:"columns"`
	Data    [][]*float64 `json:"data" yaml:"data"`
}

func (t *Table) split() splitTable {
	s := splitTable{Columns: t.Columns, Data: make([][]*float64, len(t.Rows))}
	for r, row := range t.Rows {
		vals := make([]*float64, len(row))
		for i, v := range row {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				v := v
				vals[i] = &v
			}
		}
		s.Data[r] = vals
	}
	return s
}

func (s splitTable) table() (*Table, error) {
	t := NewTable(s.Columns...)
	for r, vals := range s.Data {
		row := make([]float64, len(vals))
		for i, v := range vals {
			if v == nil {
				row[i] = math.NaN()
			} else {
				row[i] = *v
			}
		}
		if err := t.AppendRow(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
	}
	return t, nil
}

// WriteCSV writes the table with a header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table written by WriteCSV.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	t := NewTable(header...)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make([]float64, len(rec))
		for i, s := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, header[i], err)
			}
			row[i] = v
		}
		if err := t.AppendRow(row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return t, nil
}

// WriteJSON writes the table in split orientation.
func (t *Table) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.split())
}

// ReadJSON reads a table written by WriteJSON.
func ReadJSON(r io.Reader) (*Table, error) {
	var s splitTable
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return s.table()
}

// WriteYAML writes the table in split orientation.
func (t *Table) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(t.split()); err != nil {
		return err
	}
	return enc.Close()
}

// ReadYAML reads a table written by WriteYAML.
func ReadYAML(r io.Reader) (*Table, error) {
	var s splitTable
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return s.table()
}

// SaveTable writes t to path in the format implied by its extension.
// tableName is only used for SQLite; empty means DefaultTableName.
func SaveTable(path string, t *Table, tableName string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if format == FormatSQLite {
		return SaveSQLite(path, tableName, t)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		err = t.WriteCSV(f)
	case FormatJSON:
		err = t.WriteJSON(f)
	case FormatYAML:
		err = t.WriteYAML(f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// LoadTable reads a table from path in the format implied by its extension.
func LoadTable(path string, tableName string) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if format == FormatSQLite {
		return LoadSQLite(path, tableName)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var t *Table
	switch format {
	case FormatCSV:
		t, err = ReadCSV(f)
	case FormatJSON:
		t, err = ReadJSON(f)
	case FormatYAML:
		t, err = ReadYAML(f)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}
