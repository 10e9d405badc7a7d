// Package export assembles the downloadable artifacts of a design: the plain
// SQL file and the JSON document bundling table metadata with the SQL.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ridoystarlord/visusql/generator"
	"github.com/ridoystarlord/visusql/schema"
)

// GeneratorName identifies this tool in exported documents.
const GeneratorName = "Database Designer Tool"

// ErrEmptySchema is returned when there is nothing to export.
var ErrEmptySchema = errors.New("no schema to export")

// Document is the JSON export shape.
type Document struct {
	Metadata Metadata        `json:"metadata"`
	Tables   []DocumentTable `json:"tables"`
	SQL      string          `json:"sql"`
}

// Metadata describes when and by what a document was produced.
type Metadata struct {
	ExportedAt  string `json:"exported_at"`
	TablesCount int    `json:"tables_count"`
	Generator   string `json:"generator"`
}

// DocumentTable is one table of an export document.
type DocumentTable struct {
	Name    string           `json:"name"`
	Columns []DocumentColumn `json:"columns"`
}

// DocumentColumn is one column of an export document.
type DocumentColumn struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PrimaryKey   bool   `json:"primary_key"`
	Nullable     bool   `json:"nullable"`
	Unique       bool   `json:"unique"`
	DefaultValue string `json:"default_value"`
}

// NewDocument builds the export document for tables at time now.
func NewDocument(tables []schema.Table, now time.Time) Document {
	doc := Document{
		Metadata: Metadata{
			ExportedAt:  now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			TablesCount: len(tables),
			Generator:   GeneratorName,
		},
		Tables: make([]DocumentTable, 0, len(tables)),
		SQL:    generator.GenerateSQL(tables),
	}
	for _, t := range tables {
		dt := DocumentTable{Name: t.Name, Columns: make([]DocumentColumn, 0, len(t.Columns))}
		for _, c := range t.Columns {
			dt.Columns = append(dt.Columns, DocumentColumn{
				Name:         c.Name,
				Type:         c.DataType,
				PrimaryKey:   c.IsPrimaryKey,
				Nullable:     c.IsNullable,
				Unique:       c.IsUnique,
				DefaultValue: c.DefaultValue,
			})
		}
		doc.Tables = append(doc.Tables, dt)
	}
	return doc
}

// SQLFilename returns the download name of a SQL export.
func SQLFilename(now time.Time) string {
	return fmt.Sprintf("database_schema_%s.sql", now.UTC().Format("2006-01-02T15-04-05"))
}

// JSONFilename returns the download name of a JSON export.
func JSONFilename(now time.Time) string {
	return fmt.Sprintf("database_schema_%s.json", now.UTC().Format("2006-01-02"))
}

// WriteSQL writes the generated SQL verbatim.
func WriteSQL(w io.Writer, tables []schema.Table) error {
	sql := generator.GenerateSQL(tables)
	if sql == "" {
		return ErrEmptySchema
	}
	if _, err := io.WriteString(w, sql); err != nil {
		return fmt.Errorf("writing sql: %w", err)
	}
	return nil
}

// WriteJSON writes the export document indented by two spaces.
func WriteJSON(w io.Writer, tables []schema.Table, now time.Time) error {
	doc := NewDocument(tables, now)
	if doc.SQL == "" {
		return ErrEmptySchema
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export document: %w", err)
	}
	return nil
}

// SaveSQLFile writes a SQL export into dir and returns its path.
func SaveSQLFile(dir string, tables []schema.Table, now time.Time) (string, error) {
	return saveFile(dir, SQLFilename(now), func(w io.Writer) error {
		return WriteSQL(w, tables)
	})
}

// SaveJSONFile writes a JSON export into dir and returns its path.
func SaveJSONFile(dir string, tables []schema.Table, now time.Time) (string, error) {
	return saveFile(dir, JSONFilename(now), func(w io.Writer) error {
		return WriteJSON(w, tables, now)
	})
}

func saveFile(dir, name string, write func(io.Writer) error) (string, error) {
	if dir == "" {
		dir = "."
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export folder: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}
	return path, nil
}
