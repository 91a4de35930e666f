package formation

import "fmt"

// ValidationError reports malformed input to a mutating operation. State is
// left unchanged when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SchemaError reports an imported snapshot that lacks a required field.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid project file: %s %s", e.Field, e.Reason)
}
