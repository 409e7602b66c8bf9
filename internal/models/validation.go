package models

// ValidationError reports a user-correctable input problem. Field is empty
// when the problem spans multiple fields (e.g. missing required fields).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
