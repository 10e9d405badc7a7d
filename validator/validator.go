package validator

import (
	"fmt"
	"strings"

	"github.com/ridoystarlord/visusql/schema"
)

// ValidationError represents a validation finding with details
type ValidationError struct {
	Type     string `json:"type"`
	Table    string `json:"table,omitempty"`
	Column   string `json:"column,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error", "warning", "info"
}

// ValidationResult contains all validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

func (r *ValidationResult) addError(typ, table, column, msg string) {
	r.Errors = append(r.Errors, ValidationError{Type: typ, Table: table, Column: column, Message: msg, Severity: "error"})
}

func (r *ValidationResult) addWarning(typ, table, column, msg string) {
	r.Warnings = append(r.Warnings, ValidationError{Type: typ, Table: table, Column: column, Message: msg, Severity: "warning"})
}

func (r *ValidationResult) addInfo(typ, table, column, msg string) {
	r.Info = append(r.Info, ValidationError{Type: typ, Table: table, Column: column, Message: msg, Severity: "info"})
}

var reservedKeywords = map[string]bool{
	"user": true, "order": true, "group": true, "table": true, "index": true,
	"view": true, "schema": true, "select": true, "from": true, "where": true,
	"key": true, "primary": true, "references": true, "default": true,
}

// Validate lints a design without touching it. Mutations never depend on the
// result: the editor accepts duplicates and keywords, this only reports them.
func Validate(tables []schema.Table, relationships []schema.Relationship) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}

	tableNames := make(map[string]bool, len(tables))
	tableIDs := make(map[string]string, len(tables))
	for _, table := range tables {
		tableIDs[table.ID] = table.Name

		if err := validateIdentifier("table", table.Name); err != nil {
			result.addError("table_name", table.Name, "", err.Error())
		} else if tableNames[table.Name] {
			result.addError("duplicate_table", table.Name, "", fmt.Sprintf("Duplicate table name '%s'", table.Name))
		}
		tableNames[table.Name] = true

		if reservedKeywords[strings.ToLower(table.Name)] {
			result.addWarning("reserved_keyword", table.Name, "", fmt.Sprintf("table name '%s' is a reserved keyword", table.Name))
		}

		validateColumns(table, result)
	}

	for _, rel := range relationships {
		_, srcOK := tableIDs[rel.SourceTableID]
		_, tgtOK := tableIDs[rel.TargetTableID]
		if !srcOK || !tgtOK {
			result.addError("dangling_relationship", "", "", fmt.Sprintf("Relationship '%s' references a missing table", rel.ID))
			continue
		}
		if rel.SourceTableID == rel.TargetTableID {
			result.addInfo("self_relationship", tableIDs[rel.SourceTableID], "", fmt.Sprintf("Relationship '%s' links a table to itself", rel.Label))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func validateColumns(table schema.Table, result *ValidationResult) {
	if len(table.Columns) == 0 {
		result.addError("no_columns", table.Name, "", fmt.Sprintf("Table '%s' must have at least one column", table.Name))
		return
	}

	columnNames := make(map[string]bool)
	hasPrimaryKey := false

	for _, column := range table.Columns {
		if err := validateIdentifier("column", column.Name); err != nil {
			result.addError("column_name", table.Name, column.Name, err.Error())
		} else if columnNames[column.Name] {
			result.addError("duplicate_column", table.Name, column.Name,
				fmt.Sprintf("Duplicate column name '%s' in table '%s'", column.Name, table.Name))
		}
		columnNames[column.Name] = true

		if reservedKeywords[strings.ToLower(column.Name)] {
			result.addWarning("reserved_keyword", table.Name, column.Name, fmt.Sprintf("column name '%s' is a reserved keyword", column.Name))
		}

		if !schema.IsKnownDataType(column.DataType) {
			result.addWarning("data_type", table.Name, column.Name, fmt.Sprintf("unsupported data type '%s'", column.DataType))
		}

		if column.IsPrimaryKey {
			hasPrimaryKey = true
		}

		if column.HasDefault() {
			if err := validateDefaultValue(column.DataType, strings.TrimSpace(column.DefaultValue)); err != nil {
				result.addWarning("default_value", table.Name, column.Name, err.Error())
			}
		}
	}

	if !hasPrimaryKey {
		result.addWarning("no_primary_key", table.Name, "", fmt.Sprintf("Table '%s' has no primary key defined", table.Name))
	}
}

// validateIdentifier validates a name used inside backtick quoting
func validateIdentifier(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}

	if len(name) > 64 {
		return fmt.Errorf("%s name '%s' is too long (max 64 characters)", kind, name)
	}

	if strings.ContainsRune(name, '`') {
		return fmt.Errorf("%s name '%s' contains a backtick", kind, name)
	}

	return nil
}

// validateDefaultValue validates default value against data type
func validateDefaultValue(dataType, defaultValue string) error {
	dataType = strings.ToUpper(dataType)

	switch {
	case strings.Contains(dataType, "CHAR") || strings.Contains(dataType, "TEXT"):
		if strings.Contains(defaultValue, "'") {
			return fmt.Errorf("default value '%s' contains a single quote and will produce invalid SQL", defaultValue)
		}
	case strings.Contains(dataType, "INT") || strings.Contains(dataType, "SERIAL"):
		if strings.Contains(defaultValue, ".") && !strings.Contains(defaultValue, "(") {
			return fmt.Errorf("integer type cannot have decimal default value '%s'", defaultValue)
		}
	case dataType == "BOOLEAN" || dataType == "BOOL":
		switch strings.ToUpper(defaultValue) {
		case "TRUE", "FALSE", "0", "1":
		default:
			return fmt.Errorf("boolean type should have true/false default value, got '%s'", defaultValue)
		}
	}

	return nil
}
