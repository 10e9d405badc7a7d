package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ridoystarlord/visusql/export"
	"github.com/ridoystarlord/visusql/schema"
)

// LoadFromExport reads a JSON export document into a new Schema.
func LoadFromExport(filename string, opts ...schema.Option) (*schema.Schema, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}
	defer f.Close()

	return DecodeExport(f, opts...)
}

// DecodeExport rebuilds a Schema from a JSON export document. Documents with
// fields outside the export shape are rejected. Relationships are not part of
// the export and are therefore not restored.
func DecodeExport(r io.Reader, opts ...schema.Option) (*schema.Schema, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc export.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding export document: %w", err)
	}

	s := schema.New(opts...)
	for i, t := range doc.Tables {
		created, err := s.AddTable(t.Name)
		if err != nil {
			return nil, fmt.Errorf("table #%d: %w", i+1, err)
		}

		created.Columns = make([]schema.Column, 0, len(t.Columns))
		for _, c := range t.Columns {
			created.Columns = append(created.Columns, schema.Column{
				Name:         c.Name,
				DataType:     c.Type,
				IsPrimaryKey: c.PrimaryKey,
				IsNullable:   c.Nullable,
				IsUnique:     c.Unique,
				DefaultValue: c.DefaultValue,
			})
		}
		if _, err := s.UpdateTable(created.ID, created); err != nil {
			return nil, fmt.Errorf("table %q: %w", created.Name, err)
		}
	}
	return s, nil
}
