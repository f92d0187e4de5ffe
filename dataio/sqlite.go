package dataio

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	_ "modernc.org/sqlite"
)

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// OpenDB opens an SQLite database file.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return db, nil
}

// SaveSQLite replaces tableName in the database at path with t.
func SaveSQLite(path, tableName string, t *Table) error {
	if tableName == "" {
		tableName = DefaultTableName
	}
	db, err := OpenDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + quoteIdent(tableName)); err != nil {
		return fmt.Errorf("dropping %s: %w", tableName, err)
	}

	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		typ := "REAL"
		if c == SpecIDColumn {
			typ = "INTEGER"
		}
		cols[i] = quoteIdent(c) + " " + typ
		marks[i] = "?"
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(cols, ", "))
	if _, err := tx.Exec(ddl); err != nil {
		return fmt.Errorf("creating %s: %w", tableName, err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(tableName), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for r, row := range t.Rows {
		for i, v := range row {
			switch {
			case math.IsNaN(v):
				args[i] = nil
			case t.Columns[i] == SpecIDColumn:
				args[i] = int64(v)
			default:
				args[i] = v
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting row %d: %w", r, err)
		}
	}
	return tx.Commit()
}

// LoadSQLite reads tableName from the database at path.
func LoadSQLite(path, tableName string) (*Table, error) {
	if tableName == "" {
		tableName = DefaultTableName
	}
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT * FROM " + quoteIdent(tableName))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", tableName, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	t := NewTable(cols...)
	vals := make([]sql.NullFloat64, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]float64, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.Float64
			} else {
				row[i] = math.NaN()
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}
