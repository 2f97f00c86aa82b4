package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the store client, the emulator and the services.
var (
	ErrNotFound             = errors.New("not found")
	ErrConfirmationDeclined = errors.New("confirmation declined")
)

// ValidationError reports a required field that is missing or blank.
// It is returned before any call to the agenda store is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Message)
}

// NewRequiredError returns a ValidationError for a missing required field.
func NewRequiredError(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "is required"}
}

// FetchError wraps any failure talking to the agenda store: transport errors,
// non-success responses, or bodies that cannot be decoded.
type FetchError struct {
	Action string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("agenda store %s: %v", e.Action, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps err unless it already is a FetchError.
func NewFetchError(action string, err error) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Action: action, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsFetch reports whether err is (or wraps) a FetchError.
func IsFetch(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// Confirmer gates destructive actions. It is asked once per action with a
// human readable prompt; returning false aborts the action.
type Confirmer func(prompt string) bool

// Confirmed returns a Confirmer that always answers ok.
func Confirmed(ok bool) Confirmer {
	return func(string) bool { return ok }
}

// Confirm runs c for prompt. A nil Confirmer declines.
func Confirm(c Confirmer, prompt string) error {
	if c == nil || !c(prompt) {
		return ErrConfirmationDeclined
	}
	return nil
}
