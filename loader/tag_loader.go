package loader

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/ridoystarlord/visusql/schema"
)

// TagLoader builds a design from Go structs annotated with visusql tags:
//
//	type Post struct {
//		ID     int    `visusql:"primary"`
//		Title  string `visusql:"not_null;type:VARCHAR(120)"`
//		UserID int    `visusql:"ref:users"`
//	}
//
// Only tagged fields become columns; structs without any are skipped.
type TagLoader struct {
	modelsDir string
	opts      []schema.Option
}

type structModel struct {
	table schema.Table
	refs  []string
}

// NewTagLoader creates a new tag loader
func NewTagLoader(modelsDir string, opts ...schema.Option) *TagLoader {
	return &TagLoader{
		modelsDir: modelsDir,
		opts:      opts,
	}
}

// LoadFromStructs loads a design from the Go files under modelsDir.
func LoadFromStructs(modelsDir string, opts ...schema.Option) (*schema.Schema, error) {
	return NewTagLoader(modelsDir, opts...).Load()
}

// Load parses every non-test .go file in lexical order. Tables keep struct
// declaration order; a ref:<table> tag connects the struct's table to the
// named table.
func (tl *TagLoader) Load() (*schema.Schema, error) {
	if _, err := os.Stat(tl.modelsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("models directory '%s' does not exist", tl.modelsDir)
	}

	var models []structModel
	err := filepath.Walk(tl.modelsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		fileModels, err := tl.parseGoFile(path)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		models = append(models, fileModels...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load models: %w", err)
	}

	return tl.build(models)
}

func (tl *TagLoader) build(models []structModel) (*schema.Schema, error) {
	s := schema.New(tl.opts...)
	ids := make([]string, len(models))
	byName := make(map[string]string, len(models))

	for i, m := range models {
		created, err := s.AddTable(m.table.Name)
		if err != nil {
			return nil, err
		}
		created.Columns = m.table.Columns
		if _, err := s.UpdateTable(created.ID, created); err != nil {
			return nil, fmt.Errorf("table %q: %w", created.Name, err)
		}
		ids[i] = created.ID
		if _, ok := byName[created.Name]; !ok {
			byName[created.Name] = created.ID
		}
	}

	for i, m := range models {
		for _, ref := range m.refs {
			target, ok := byName[ref]
			if !ok {
				return nil, fmt.Errorf("table %q: ref to unknown table %q", m.table.Name, ref)
			}
			if _, err := s.Connect(ids[i], target); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// parseGoFile parses a single Go file and extracts models
func (tl *TagLoader) parseGoFile(filePath string) ([]structModel, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filePath, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go file: %w", err)
	}

	var models []structModel
	ast.Inspect(node, func(n ast.Node) bool {
		if x, ok := n.(*ast.TypeSpec); ok {
			if structType, ok := x.Type.(*ast.StructType); ok {
				if m, ok := tl.parseStruct(x.Name.Name, structType); ok {
					models = append(models, m)
				}
			}
		}
		return true
	})
	return models, nil
}

func (tl *TagLoader) parseStruct(structName string, structType *ast.StructType) (structModel, bool) {
	m := structModel{table: schema.Table{Name: tl.getTableName(structName)}}

	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			continue // embedded
		}
		fieldName := field.Names[0].Name
		if !ast.IsExported(fieldName) {
			continue
		}

		tag := tl.parseTag(field.Tag)
		if tag.Ignore {
			continue
		}

		column := schema.Column{
			Name:         tag.ColumnName,
			DataType:     tag.DataType,
			IsPrimaryKey: tag.Primary,
			IsNullable:   !tag.Primary && !tag.NotNull,
			IsUnique:     tag.Unique,
			DefaultValue: tag.Default,
		}
		if column.Name == "" {
			column.Name = tl.toSnakeCase(fieldName)
		}
		if column.DataType == "" {
			column.DataType = tl.inferDataType(tl.getFieldType(field.Type))
		}
		m.table.Columns = append(m.table.Columns, column)

		if tag.Ref != "" {
			m.refs = append(m.refs, tag.Ref)
		}
	}

	return m, len(m.table.Columns) > 0
}

func (tl *TagLoader) parseTag(tag *ast.BasicLit) *FieldTag {
	if tag == nil {
		return &FieldTag{Ignore: true}
	}
	tagValue := strings.Trim(tag.Value, "`")
	return tl.parseFieldTag(reflect.StructTag(tagValue).Get("visusql"))
}

// parseFieldTag reads "primary;unique;not_null;type:TEXT;default:x;column:name;ref:table".
func (tl *TagLoader) parseFieldTag(value string) *FieldTag {
	tag := &FieldTag{}
	if value == "" || value == "-" {
		tag.Ignore = true
		return tag
	}

	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if key, val, ok := strings.Cut(part, ":"); ok {
			val = strings.TrimSpace(val)
			switch strings.TrimSpace(key) {
			case "column":
				tag.ColumnName = val
			case "type":
				tag.DataType = val
			case "default":
				tag.Default = val
			case "ref":
				tag.Ref = val
			}
			continue
		}

		switch part {
		case "primary":
			tag.Primary = true
		case "unique":
			tag.Unique = true
		case "not_null":
			tag.NotNull = true
		}
	}
	return tag
}

// getFieldType extracts the Go type name from an ast.Expr
func (tl *TagLoader) getFieldType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return tl.getFieldType(t.X)
	case *ast.ArrayType:
		return "[]" + tl.getFieldType(t.Elt)
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return x.Name + "." + t.Sel.Name
		}
	}
	return ""
}

// getTableName converts struct name to table name
func (tl *TagLoader) getTableName(structName string) string {
	tableName := tl.toSnakeCase(structName)

	if strings.HasSuffix(tableName, "y") {
		tableName = strings.TrimSuffix(tableName, "y") + "ies"
	} else if !strings.HasSuffix(tableName, "s") {
		tableName += "s"
	}
	return tableName
}

// inferDataType maps a Go type onto one of the editor data types.
func (tl *TagLoader) inferDataType(goType string) string {
	switch goType {
	case "int", "int8", "int16", "int32", "uint", "uint8", "uint16", "uint32":
		return "INTEGER"
	case "int64", "uint64":
		return "BIGINT"
	case "string", "uuid.UUID":
		return schema.DefaultColumnDataType
	case "bool":
		return "BOOLEAN"
	case "float32", "float64":
		return "DECIMAL(10,2)"
	case "time.Time":
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// toSnakeCase converts PascalCase to snake_case
func (tl *TagLoader) toSnakeCase(s string) string {
	var result strings.Builder
	var prev rune

	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' && prev >= 'a' && prev <= 'z' {
			result.WriteByte('_')
		}
		result.WriteRune(r)
		prev = r
	}
	return strings.ToLower(result.String())
}

// FieldTag is a parsed visusql struct tag.
type FieldTag struct {
	Ignore     bool
	ColumnName string
	DataType   string
	Primary    bool
	Unique     bool
	NotNull    bool
	Default    string
	Ref        string
}
