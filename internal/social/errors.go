package social

import "errors"

// ErrNotAuthor is returned when someone other than the author edits or
// deletes a post.
var ErrNotAuthor = errors.New("social: actor is not the post author")

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError reports rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Outcome is the result of a request that completed, either by changing
// state or by a business rule that made it a no-op.
type Outcome struct {
	Message string
	Applied bool
}

func applied(msg string) Outcome { return Outcome{Message: msg, Applied: true} }

func noop(msg string) Outcome { return Outcome{Message: msg} }

func notFound(msg string) error { return &NotFoundError{Message: msg} }

func invalid(msg string) error { return &ValidationError{Message: msg} }
