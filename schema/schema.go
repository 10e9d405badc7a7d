// Package schema holds the in-memory design of a relational schema: tables,
// their ordered columns and the relationships drawn between them.
//
// A Schema is owned by exactly one caller at a time. It performs no internal
// locking; callers that share one across goroutines serialize access
// themselves (see the studio package).
package schema

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// LabelPolicy decides how relationship labels react to table renames.
type LabelPolicy int

const (
	// LabelSnapshotAtConnectTime computes the label once, when the tables are
	// connected, and never updates it afterwards.
	LabelSnapshotAtConnectTime LabelPolicy = iota
	// LabelFollowsRenames recomputes labels whenever a connected table is saved.
	LabelFollowsRenames
)

// IDGenerator returns a fresh unique token used to build identifiers.
type IDGenerator func() string

// Option configures a Schema.
type Option func(*Schema)

// WithIDGenerator replaces the uuid based identifier source.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Schema) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLabelPolicy sets the relationship label policy.
func WithLabelPolicy(p LabelPolicy) Option {
	return func(s *Schema) {
		s.labelPolicy = p
	}
}

// Schema is the authoritative set of tables and relationships.
type Schema struct {
	tables        []Table
	relationships []Relationship
	newID         IDGenerator
	labelPolicy   LabelPolicy
}

// New returns an empty schema.
func New(opts ...Option) *Schema {
	s := &Schema{
		newID:       func() string { return uuid.New().String() },
		labelPolicy: LabelSnapshotAtConnectTime,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Schema) tableID() string  { return "table_" + s.newID() }
func (s *Schema) columnID() string { return "col_" + s.newID() }

func (s *Schema) relationshipID(sourceID, targetID string) string {
	return fmt.Sprintf("edge-%s-%s-%s", sourceID, targetID, s.newID())
}

// RelationshipLabel builds the display label for a link between two tables.
func RelationshipLabel(sourceName, targetName string) string {
	return sourceName + " → " + targetName
}

func (s *Schema) indexOfTable(id string) int {
	for i := range s.tables {
		if s.tables[i].ID == id {
			return i
		}
	}
	return -1
}

// AddTable appends a new table holding the default integer primary key
// column "id".
func (s *Schema) AddTable(name string) (Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Table{}, &InvalidNameError{Kind: "table"}
	}

	t := Table{
		ID:   s.tableID(),
		Name: name,
		Columns: []Column{{
			ID:           s.columnID(),
			Name:         "id",
			DataType:     "INTEGER",
			IsPrimaryKey: true,
			IsNullable:   false,
			IsUnique:     true,
		}},
	}
	s.tables = append(s.tables, t)
	return t.Clone(), nil
}

// UpdateTable replaces the table identified by tableID wholesale with
// newTable. The stored table keeps tableID regardless of newTable.ID, and
// columns without an id are assigned a fresh one.
func (s *Schema) UpdateTable(tableID string, newTable Table) (Table, error) {
	idx := s.indexOfTable(tableID)
	if idx < 0 {
		return Table{}, &NotFoundError{Kind: "table", ID: tableID}
	}
	if strings.TrimSpace(newTable.Name) == "" {
		return Table{}, &InvalidNameError{Kind: "table", Value: newTable.Name}
	}

	t := newTable.Clone()
	t.ID = tableID
	seen := make(map[string]bool, len(t.Columns))
	for i := range t.Columns {
		col := &t.Columns[i]
		if strings.TrimSpace(col.Name) == "" {
			return Table{}, &InvalidColumnError{TableID: tableID, ColumnID: col.ID, Reason: "column name cannot be empty"}
		}
		if col.ID == "" {
			col.ID = s.columnID()
		}
		if seen[col.ID] {
			return Table{}, &InvalidColumnError{TableID: tableID, ColumnID: col.ID, Reason: "duplicate column id"}
		}
		seen[col.ID] = true
	}
	if t.Columns == nil {
		t.Columns = []Column{}
	}

	s.tables[idx] = t
	if s.labelPolicy == LabelFollowsRenames {
		s.refreshLabels(t)
	}
	return t.Clone(), nil
}

// RenameTable changes only the name of a table.
func (s *Schema) RenameTable(tableID, name string) (Table, error) {
	idx := s.indexOfTable(tableID)
	if idx < 0 {
		return Table{}, &NotFoundError{Kind: "table", ID: tableID}
	}
	t := s.tables[idx].Clone()
	t.Name = name
	return s.UpdateTable(tableID, t)
}

func (s *Schema) refreshLabels(t Table) {
	for i := range s.relationships {
		r := &s.relationships[i]
		if r.SourceTableID == t.ID {
			r.SourceTableName = t.Name
		}
		if r.TargetTableID == t.ID {
			r.TargetTableName = t.Name
		}
		r.Label = RelationshipLabel(r.SourceTableName, r.TargetTableName)
	}
}

// DeleteTable removes a table and every relationship referencing it.
// Deleting an unknown id is a no-op.
func (s *Schema) DeleteTable(tableID string) {
	idx := s.indexOfTable(tableID)
	if idx < 0 {
		return
	}
	s.tables = append(s.tables[:idx:idx], s.tables[idx+1:]...)

	kept := s.relationships[:0:0]
	for _, r := range s.relationships {
		if r.SourceTableID != tableID && r.TargetTableID != tableID {
			kept = append(kept, r)
		}
	}
	s.relationships = kept
}

// AddColumn appends a nullable VARCHAR(255) column named "new_column".
func (s *Schema) AddColumn(tableID string) (Column, error) {
	idx := s.indexOfTable(tableID)
	if idx < 0 {
		return Column{}, &NotFoundError{Kind: "table", ID: tableID}
	}
	col := Column{
		ID:         s.columnID(),
		Name:       DefaultColumnName,
		DataType:   DefaultColumnDataType,
		IsNullable: true,
	}
	s.tables[idx].Columns = append(s.tables[idx].Columns, col)
	return col, nil
}

// UpdateColumn merges upd into the column identified by columnID.
func (s *Schema) UpdateColumn(tableID, columnID string, upd ColumnUpdate) (Column, error) {
	idx := s.indexOfTable(tableID)
	if idx < 0 {
		return Column{}, &NotFoundError{Kind: "table", ID: tableID}
	}
	cols := s.tables[idx].Columns
	for i := range cols {
		if cols[i].ID != columnID {
			continue
		}
		updated := cols[i]
		upd.apply(&updated)
		if strings.TrimSpace(updated.Name) == "" {
			return Column{}, &InvalidNameError{Kind: "column", Value: updated.Name}
		}
		cols[i] = updated
		return updated, nil
	}
	return Column{}, &NotFoundError{Kind: "column", ID: columnID}
}

// DeleteColumn removes a column. Relationships are table level, so nothing
// cascades.
func (s *Schema) DeleteColumn(tableID, columnID string) error {
	idx := s.indexOfTable(tableID)
	if idx < 0 {
		return &NotFoundError{Kind: "table", ID: tableID}
	}
	cols := s.tables[idx].Columns
	for i := range cols {
		if cols[i].ID == columnID {
			s.tables[idx].Columns = append(cols[:i:i], cols[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Kind: "column", ID: columnID}
}

// Connect links two existing tables. A table may be connected to itself.
func (s *Schema) Connect(sourceTableID, targetTableID string) (Relationship, error) {
	si := s.indexOfTable(sourceTableID)
	if si < 0 {
		return Relationship{}, &NotFoundError{Kind: "table", ID: sourceTableID}
	}
	ti := s.indexOfTable(targetTableID)
	if ti < 0 {
		return Relationship{}, &NotFoundError{Kind: "table", ID: targetTableID}
	}

	source, target := s.tables[si], s.tables[ti]
	r := Relationship{
		ID:              s.relationshipID(source.ID, target.ID),
		SourceTableID:   source.ID,
		TargetTableID:   target.ID,
		SourceTableName: source.Name,
		TargetTableName: target.Name,
		Label:           RelationshipLabel(source.Name, target.Name),
	}
	s.relationships = append(s.relationships, r)
	return r, nil
}

// Disconnect removes a relationship. Unknown ids are ignored.
func (s *Schema) Disconnect(relationshipID string) {
	for i := range s.relationships {
		if s.relationships[i].ID == relationshipID {
			s.relationships = append(s.relationships[:i:i], s.relationships[i+1:]...)
			return
		}
	}
}

// Reset drops every table and relationship.
func (s *Schema) Reset() {
	s.tables = nil
	s.relationships = nil
}

// Table returns a copy of one table.
func (s *Schema) Table(tableID string) (Table, error) {
	idx := s.indexOfTable(tableID)
	if idx < 0 {
		return Table{}, &NotFoundError{Kind: "table", ID: tableID}
	}
	return s.tables[idx].Clone(), nil
}

// Tables returns a copy of the tables in creation order.
func (s *Schema) Tables() []Table {
	out := make([]Table, len(s.tables))
	for i, t := range s.tables {
		out[i] = t.Clone()
	}
	return out
}

// Relationships returns a copy of the relationships in creation order.
func (s *Schema) Relationships() []Relationship {
	out := make([]Relationship, len(s.relationships))
	copy(out, s.relationships)
	return out
}

// Stats counts tables, columns and primary keys.
func (s *Schema) Stats() Stats {
	st := Stats{
		Tables:        len(s.tables),
		Relationships: len(s.relationships),
		PerTable:      make([]TableStats, 0, len(s.tables)),
	}
	for _, t := range s.tables {
		st.Columns += len(t.Columns)
		st.PerTable = append(st.PerTable, TableStats{
			TableID:     t.ID,
			Name:        t.Name,
			Columns:     len(t.Columns),
			PrimaryKeys: len(t.PrimaryKeyColumns()),
		})
	}
	return st
}
