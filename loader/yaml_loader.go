package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ridoystarlord/visusql/schema"
	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Tables        []yamlTable        `yaml:"tables"`
	Relationships []yamlRelationship `yaml:"relationships,omitempty"`
}

type yamlTable struct {
	Name    string       `yaml:"name"`
	Columns []yamlColumn `yaml:"columns"`
}

type yamlColumn struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Primary  bool   `yaml:"primary,omitempty"`
	Nullable *bool  `yaml:"nullable,omitempty"`
	Unique   bool   `yaml:"unique,omitempty"`
	Default  string `yaml:"default,omitempty"`
}

type yamlRelationship struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LoadFromYAML reads a design file into a new Schema.
func LoadFromYAML(filename string, opts ...schema.Option) (*schema.Schema, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	defer f.Close()

	return DecodeYAML(f, opts...)
}

// DecodeYAML builds a Schema from a YAML design. Unknown keys are rejected.
// Tables without a columns key keep the default "id" column; "columns: []"
// declares a table with no columns. Relationship endpoints are table names;
// when names repeat, the first table wins.
func DecodeYAML(r io.Reader, opts ...schema.Option) (*schema.Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var yf yamlFile
	if err := dec.Decode(&yf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	s := schema.New(opts...)
	byName := make(map[string]string, len(yf.Tables))

	for i, t := range yf.Tables {
		created, err := s.AddTable(t.Name)
		if err != nil {
			return nil, fmt.Errorf("table #%d: %w", i+1, err)
		}
		if _, ok := byName[created.Name]; !ok {
			byName[created.Name] = created.ID
		}
		if t.Columns == nil {
			continue
		}

		created.Columns = make([]schema.Column, 0, len(t.Columns))
		for _, c := range t.Columns {
			nullable := !c.Primary
			if c.Nullable != nil {
				nullable = *c.Nullable
			}
			dataType := c.Type
			if dataType == "" {
				dataType = schema.DefaultColumnDataType
			}
			created.Columns = append(created.Columns, schema.Column{
				Name:         c.Name,
				DataType:     dataType,
				IsPrimaryKey: c.Primary,
				IsNullable:   nullable,
				IsUnique:     c.Unique,
				DefaultValue: c.Default,
			})
		}
		if _, err := s.UpdateTable(created.ID, created); err != nil {
			return nil, fmt.Errorf("table %q: %w", created.Name, err)
		}
	}

	for i, rel := range yf.Relationships {
		from, ok := byName[rel.From]
		if !ok {
			return nil, fmt.Errorf("relationship #%d: unknown source table %q", i+1, rel.From)
		}
		to, ok := byName[rel.To]
		if !ok {
			return nil, fmt.Errorf("relationship #%d: unknown target table %q", i+1, rel.To)
		}
		if _, err := s.Connect(from, to); err != nil {
			return nil, fmt.Errorf("relationship #%d: %w", i+1, err)
		}
	}

	return s, nil
}

// EncodeYAML writes tables and relationships as a YAML design. Every table
// carries an explicit columns list so DecodeYAML restores it unchanged.
func EncodeYAML(w io.Writer, tables []schema.Table, relationships []schema.Relationship) error {
	names := make(map[string]string, len(tables))
	yf := yamlFile{Tables: make([]yamlTable, 0, len(tables))}

	for _, t := range tables {
		names[t.ID] = t.Name
		yt := yamlTable{Name: t.Name, Columns: make([]yamlColumn, 0, len(t.Columns))}
		for _, c := range t.Columns {
			nullable := c.IsNullable
			yt.Columns = append(yt.Columns, yamlColumn{
				Name:     c.Name,
				Type:     c.DataType,
				Primary:  c.IsPrimaryKey,
				Nullable: &nullable,
				Unique:   c.IsUnique,
				Default:  c.DefaultValue,
			})
		}
		yf.Tables = append(yf.Tables, yt)
	}
	for _, r := range relationships {
		from, okFrom := names[r.SourceTableID]
		to, okTo := names[r.TargetTableID]
		if !okFrom || !okTo {
			continue
		}
		yf.Relationships = append(yf.Relationships, yamlRelationship{From: from, To: to})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yf); err != nil {
		return fmt.Errorf("marshalling YAML: %w", err)
	}
	return enc.Close()
}
