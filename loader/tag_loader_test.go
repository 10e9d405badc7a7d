package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleModels = "package models\n\n" +
	"import \"time\"\n\n" +
	"type User struct {\n" +
	"\tID        int       `visusql:\"primary\"`\n" +
	"\tEmail     string    `visusql:\"unique;not_null\"`\n" +
	"\tCreatedAt time.Time `visusql:\"not_null\"`\n" +
	"\tscratch   string\n" +
	"}\n\n" +
	"type Category struct {\n" +
	"\tID   int64  `visusql:\"primary\"`\n" +
	"\tName string `visusql:\"column:label;type:VARCHAR(64);default:misc\"`\n" +
	"\tNote string `visusql:\"-\"`\n" +
	"}\n\n" +
	"type PostTag struct {\n" +
	"\tUserID     int `visusql:\"ref:users\"`\n" +
	"\tCategoryID int `visusql:\"ref:categories\"`\n" +
	"}\n\n" +
	"type options struct {\n" +
	"\tVerbose bool\n" +
	"}\n"

func writeModels(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "models.go"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadFromStructs(t *testing.T) {
	s, err := LoadFromStructs(writeModels(t, sampleModels))
	if err != nil {
		t.Fatalf("LoadFromStructs() error = %v", err)
	}

	tables := s.Tables()
	var names []string
	for _, tbl := range tables {
		names = append(names, tbl.Name)
	}
	if got := strings.Join(names, ","); got != "users,categories,post_tags" {
		t.Fatalf("tables = %s", got)
	}

	tests := []struct {
		table    int
		column   int
		name     string
		dataType string
		nullable bool
		unique   bool
		def      string
	}{
		{0, 0, "id", "INTEGER", false, false, ""},
		{0, 1, "email", "VARCHAR(255)", false, true, ""},
		{0, 2, "created_at", "TIMESTAMP", false, false, ""},
		{1, 0, "id", "BIGINT", false, false, ""},
		{1, 1, "label", "VARCHAR(64)", true, false, "misc"},
		{2, 0, "user_id", "INTEGER", true, false, ""},
	}
	for _, tt := range tests {
		col := tables[tt.table].Columns[tt.column]
		if col.Name != tt.name || col.DataType != tt.dataType || col.IsNullable != tt.nullable ||
			col.IsUnique != tt.unique || col.DefaultValue != tt.def {
			t.Errorf("%s.Columns[%d] = %+v", tables[tt.table].Name, tt.column, col)
		}
	}
	if len(tables[0].Columns) != 3 || len(tables[1].Columns) != 2 {
		t.Errorf("untagged fields became columns: %+v", tables)
	}

	rels := s.Relationships()
	if len(rels) != 2 || rels[0].Label != "post_tags → users" || rels[1].Label != "post_tags → categories" {
		t.Errorf("Relationships() = %+v", rels)
	}
}

func TestLoadFromStructsErrors(t *testing.T) {
	if _, err := LoadFromStructs(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("LoadFromStructs(missing dir) succeeded")
	}

	bad := "package models\n\ntype Post struct {\n\tAuthorID int `visusql:\"ref:authors\"`\n}\n"
	_, err := LoadFromStructs(writeModels(t, bad))
	if err == nil || !strings.Contains(err.Error(), "unknown table") {
		t.Errorf("LoadFromStructs(bad ref) error = %v", err)
	}
}
