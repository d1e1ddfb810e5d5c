package zonaazul

import "errors"

// ValidationError is raised client-side, before any request is sent. The
// message is already user-facing (Portuguese), matching what the dashboard
// shows inline.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErr(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether the error was a client-side rejection.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
