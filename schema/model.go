package schema

// Column is a single typed field of a table.
type Column struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DataType     string `json:"dataType"`
	IsPrimaryKey bool   `json:"isPrimaryKey"`
	IsNullable   bool   `json:"isNullable"`
	IsUnique     bool   `json:"isUnique"`
	DefaultValue string `json:"defaultValue"` // blank means no default
}

// Table is a named, ordered collection of columns.
type Table struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Relationship is a directed link between two tables. It carries no column
// level foreign key semantics and is never compiled into SQL.
type Relationship struct {
	ID              string `json:"id"`
	SourceTableID   string `json:"sourceTableId"`
	TargetTableID   string `json:"targetTableId"`
	SourceTableName string `json:"sourceTableName"`
	TargetTableName string `json:"targetTableName"`
	Label           string `json:"label"`
}

// ColumnUpdate carries a partial set of column attribute changes.
// Nil fields are left untouched.
type ColumnUpdate struct {
	Name         *string `json:"name,omitempty"`
	DataType     *string `json:"dataType,omitempty"`
	IsPrimaryKey *bool   `json:"isPrimaryKey,omitempty"`
	IsNullable   *bool   `json:"isNullable,omitempty"`
	IsUnique     *bool   `json:"isUnique,omitempty"`
	DefaultValue *string `json:"defaultValue,omitempty"`
}

// TableStats summarizes one table for toolbar and sidebar counters.
type TableStats struct {
	TableID     string `json:"tableId"`
	Name        string `json:"name"`
	Columns     int    `json:"columns"`
	PrimaryKeys int    `json:"primaryKeys"`
}

// Stats summarizes the whole design.
type Stats struct {
	Tables        int          `json:"tables"`
	Columns       int          `json:"columns"`
	Relationships int          `json:"relationships"`
	PerTable      []TableStats `json:"perTable"`
}

// Position is a canvas coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DefaultPosition returns the grid slot used to place the table created at
// index, three tables per row.
func DefaultPosition(index int) Position {
	return Position{
		X: 100 + (index%3)*450,
		Y: 100 + (index/3)*400,
	}
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	cp := t
	if t.Columns != nil {
		cp.Columns = make([]Column, len(t.Columns))
		copy(cp.Columns, t.Columns)
	}
	return cp
}

// PrimaryKeyColumns returns the primary key columns in column order.
func (t Table) PrimaryKeyColumns() []Column {
	var pks []Column
	for _, col := range t.Columns {
		if col.IsPrimaryKey {
			pks = append(pks, col)
		}
	}
	return pks
}

// HasDefault reports whether the column carries a non-blank default value.
func (c Column) HasDefault() bool {
	return trimmed(c.DefaultValue) != ""
}

func (u ColumnUpdate) apply(col *Column) {
	if u.Name != nil {
		col.Name = *u.Name
	}
	if u.DataType != nil {
		col.DataType = *u.DataType
	}
	if u.IsPrimaryKey != nil {
		col.IsPrimaryKey = *u.IsPrimaryKey
	}
	if u.IsNullable != nil {
		col.IsNullable = *u.IsNullable
	}
	if u.IsUnique != nil {
		col.IsUnique = *u.IsUnique
	}
	if u.DefaultValue != nil {
		col.DefaultValue = *u.DefaultValue
	}
}
