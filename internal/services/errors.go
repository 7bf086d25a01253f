package services

import "errors"

// ValidationError is a rejected input. Handlers answer it with 400 and
// the message as the error text.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var ErrNothingToGenerate = errors.New("no approved activities to generate approval slips for")
