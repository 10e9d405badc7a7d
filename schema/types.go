package schema

import "strings"

// DataTypes is the list of type literals offered by the table editor, in
// the order they are presented. The model itself accepts free text.
var DataTypes = []string{
	"VARCHAR(255)",
	"INTEGER",
	"BIGINT",
	"DECIMAL(10,2)",
	"BOOLEAN",
	"DATE",
	"DATETIME",
	"TIMESTAMP",
	"TEXT",
	"CHAR(10)",
}

// Defaults for a freshly added column.
const (
	DefaultColumnName     = "new_column"
	DefaultColumnDataType = "VARCHAR(255)"
)

// IsKnownDataType reports whether dataType is one of DataTypes, or one of
// their base types with different size arguments (e.g. VARCHAR(64)).
func IsKnownDataType(dataType string) bool {
	dt := strings.ToUpper(strings.TrimSpace(dataType))
	base := baseType(dt)
	for _, known := range DataTypes {
		if known == dt || baseType(known) == base {
			return true
		}
	}
	return false
}

func baseType(dataType string) string {
	if i := strings.IndexByte(dataType, '('); i >= 0 {
		return strings.TrimSpace(dataType[:i])
	}
	return dataType
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
