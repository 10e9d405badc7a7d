package generator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/visusql/schema"
)

// GenerateSQL renders one CREATE TABLE statement per table, in input order.
// It never fails: unknown data types pass through upper-cased and defaults
// that match no special case are emitted as raw literals. Relationships are
// not part of the output. An empty input yields "".
func GenerateSQL(tables []schema.Table) string {
	if len(tables) == 0 {
		return ""
	}

	var sql strings.Builder
	for _, table := range tables {
		sql.WriteString(generateCreateTable(table))
	}

	return strings.TrimRight(sql.String(), " \t\r\n")
}

func generateCreateTable(table schema.Table) string {
	var stmt strings.Builder
	stmt.WriteString(fmt.Sprintf("CREATE TABLE `%s` (\n", table.Name))

	definitions := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		definitions = append(definitions, columnDefinition(col))
	}
	stmt.WriteString(strings.Join(definitions, ",\n"))

	if pks := table.PrimaryKeyColumns(); len(pks) > 0 {
		names := make([]string, len(pks))
		for i, pk := range pks {
			names[i] = quoteIdent(pk.Name)
		}
		stmt.WriteString(fmt.Sprintf(",\n    PRIMARY KEY (%s)", strings.Join(names, ", ")))
	}

	stmt.WriteString("\n);\n\n")
	return stmt.String()
}

func columnDefinition(col schema.Column) string {
	dataType := strings.ToUpper(col.DataType)
	def := fmt.Sprintf("    %s %s", quoteIdent(col.Name), dataType)

	if !col.IsNullable {
		def += " NOT NULL"
	}

	// primary keys are implicitly unique
	if col.IsUnique && !col.IsPrimaryKey {
		def += " UNIQUE"
	}

	if col.HasDefault() {
		def += " DEFAULT " + defaultLiteral(dataType, strings.TrimSpace(col.DefaultValue))
	}

	if col.IsPrimaryKey && (strings.Contains(dataType, "INT") || strings.Contains(dataType, "SERIAL")) {
		def += " AUTO_INCREMENT"
	}

	return def
}

// defaultLiteral renders a trimmed default value for an upper-cased type.
// Embedded single quotes are not escaped.
func defaultLiteral(dataType, value string) string {
	switch {
	case isTextType(dataType):
		return "'" + value + "'"
	case strings.Contains(dataType, "TIMESTAMP") && strings.ToUpper(value) == "CURRENT_TIMESTAMP":
		return "CURRENT_TIMESTAMP"
	default:
		return value
	}
}

func isTextType(dataType string) bool {
	return strings.Contains(dataType, "VARCHAR") ||
		strings.Contains(dataType, "TEXT") ||
		strings.Contains(dataType, "CHAR")
}

func quoteIdent(name string) string {
	return "`" + name + "`"
}
