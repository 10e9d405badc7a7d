package schema

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_DeleteTableLeavesNoDanglingRelationships builds random link
// graphs and deletes a random table from them.
func TestProperty_DeleteTableLeavesNoDanglingRelationships(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("no relationship references a deleted table", prop.ForAll(
		func(tableCount int, edges []int, victim int) bool {
			s := newTestSchema()
			ids := make([]string, tableCount)
			for i := range ids {
				tbl, err := s.AddTable("t")
				if err != nil {
					return false
				}
				ids[i] = tbl.ID
			}
			for i := 0; i+1 < len(edges); i += 2 {
				if _, err := s.Connect(ids[edges[i]%tableCount], ids[edges[i+1]%tableCount]); err != nil {
					return false
				}
			}

			deleted := ids[victim%tableCount]
			expected := 0
			for _, r := range s.Relationships() {
				if r.SourceTableID != deleted && r.TargetTableID != deleted {
					expected++
				}
			}

			s.DeleteTable(deleted)

			rels := s.Relationships()
			if len(rels) != expected {
				return false
			}
			for _, r := range rels {
				if r.SourceTableID == deleted || r.TargetTableID == deleted {
					return false
				}
			}
			return len(s.Tables()) == tableCount-1
		},
		gen.IntRange(1, 8),
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

// TestProperty_ColumnIDsStableAcrossEdits checks that updates never change a
// column's identity.
func TestProperty_ColumnIDsStableAcrossEdits(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("UpdateColumn keeps the column id", prop.ForAll(
		func(name string, typeIdx int, def string, pk, nullable, unique bool) bool {
			dataType := DataTypes[typeIdx%len(DataTypes)]
			s := newTestSchema()
			tbl, _ := s.AddTable("t")
			col, _ := s.AddColumn(tbl.ID)

			upd := ColumnUpdate{
				Name:         &name,
				DataType:     &dataType,
				DefaultValue: &def,
				IsPrimaryKey: &pk,
				IsNullable:   &nullable,
				IsUnique:     &unique,
			}
			got, err := s.UpdateColumn(tbl.ID, col.ID, upd)
			if err != nil {
				return false
			}
			stored, _ := s.Table(tbl.ID)
			return got.ID == col.ID && stored.Columns[1].ID == col.ID && stored.Columns[1] == got
		},
		gen.Identifier(),
		gen.IntRange(0, 100),
		gen.AlphaString(),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
