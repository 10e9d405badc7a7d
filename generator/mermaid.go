package generator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/visusql/schema"
)

// GenerateMermaid renders the design as a Mermaid erDiagram wrapped in a
// markdown code fence. Relationships appear here, never in SQL.
func GenerateMermaid(tables []schema.Table, relationships []schema.Relationship) string {
	var content strings.Builder

	content.WriteString("# Database Schema ERD\n\n")
	content.WriteString("```mermaid\nerDiagram\n")

	names := make(map[string]string, len(tables))
	for _, table := range tables {
		entity := mermaidEntity(table.Name)
		names[table.ID] = entity

		content.WriteString(fmt.Sprintf("    %s {\n", entity))
		for _, col := range table.Columns {
			line := fmt.Sprintf("        %s %s", mermaidType(col.DataType), mermaidEntity(col.Name))

			var keys []string
			if col.IsPrimaryKey {
				keys = append(keys, "PK")
			}
			if col.IsUnique && !col.IsPrimaryKey {
				keys = append(keys, "UK")
			}
			if len(keys) > 0 {
				line += " " + strings.Join(keys, ",")
			}
			if !col.IsNullable {
				line += ` "not null"`
			}

			content.WriteString(line + "\n")
		}
		content.WriteString("    }\n")
	}

	for _, rel := range relationships {
		source, ok := names[rel.SourceTableID]
		if !ok {
			continue
		}
		target, ok := names[rel.TargetTableID]
		if !ok {
			continue
		}
		content.WriteString(fmt.Sprintf("    %s ||--o{ %s : \"%s\"\n",
			source,
			target,
			strings.ReplaceAll(rel.Label, `"`, "'"),
		))
	}

	content.WriteString("```\n")
	return content.String()
}

// mermaidEntity replaces characters Mermaid does not accept in names.
func mermaidEntity(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '_' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// mermaidType drops size arguments, e.g. DECIMAL(10,2) becomes DECIMAL.
func mermaidType(dataType string) string {
	dt := strings.ToUpper(strings.TrimSpace(dataType))
	if i := strings.IndexByte(dt, '('); i >= 0 {
		dt = dt[:i]
	}
	dt = strings.ReplaceAll(strings.TrimSpace(dt), " ", "_")
	if dt == "" {
		return "UNKNOWN"
	}
	return dt
}
