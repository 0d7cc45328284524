package departure

import "fmt"

// MalformedResponseError reports a successful response that is missing a
// required field or carries a value in the wrong format.
type MalformedResponseError struct {
	Field string
	Value string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed response: missing field %s", e.Field)
	}
	return fmt.Sprintf("malformed response: field %s (%q): %v", e.Field, e.Value, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Missing builds the error for an absent or null field.
func Missing(field string) error {
	return &MalformedResponseError{Field: field}
}
