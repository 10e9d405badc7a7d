package schema

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching against the typed errors below.
var (
	ErrInvalidName   = errors.New("invalid name")
	ErrNotFound      = errors.New("not found")
	ErrInvalidColumn = errors.New("invalid column")
)

// InvalidNameError is returned when a table or column name is blank.
type InvalidNameError struct {
	Kind  string // "table" or "column"
	Value string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("%s name cannot be empty (got %q)", e.Kind, e.Value)
}

// Is matches ErrInvalidName.
func (e *InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}

// NotFoundError is returned when an operation references an unknown id.
type NotFoundError struct {
	Kind string // "table", "column" or "relationship"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidColumnError is returned when a column definition is malformed.
type InvalidColumnError struct {
	TableID  string
	ColumnID string
	Reason   string
}

func (e *InvalidColumnError) Error() string {
	if e.ColumnID != "" {
		return fmt.Sprintf("invalid column %q in table %q: %s", e.ColumnID, e.TableID, e.Reason)
	}
	return fmt.Sprintf("invalid column in table %q: %s", e.TableID, e.Reason)
}

// Is matches ErrInvalidColumn.
func (e *InvalidColumnError) Is(target error) bool {
	return target == ErrInvalidColumn
}
