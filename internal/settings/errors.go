package settings

import (
	"errors"
	"fmt"
)

// Failure classes. Each concrete error below matches exactly one of them
// with errors.Is.
var (
	ErrLoadFailure   = errors.New("profile could not be loaded")
	ErrSaveFailure   = errors.New("settings could not be saved")
	ErrUploadFailure = errors.New("avatar could not be updated")

	// ErrBusy is returned when an operation of the same kind is already in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrUnknownField is returned for form field ids the registry does not map.
	ErrUnknownField = errors.New("field is not mapped")
)

// LoadError reports a failed profile fetch. The form is left untouched.
type LoadError struct {
	Owner string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load profile %s: %v", e.Owner, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoadFailure }

// SaveError reports a rejected update. Message is the backend's text and is
// shown to the user as is.
type SaveError struct {
	Message string
	Err     error
}

func (e *SaveError) Error() string { return e.Message }

func (e *SaveError) Unwrap() error { return e.Err }

func (e *SaveError) Is(target error) bool { return target == ErrSaveFailure }

// UploadError reports a failed avatar replacement at the given stage.
type UploadError struct {
	Stage string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("avatar %s: %v", e.Stage, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

func (e *UploadError) Is(target error) bool { return target == ErrUploadFailure }

// Message is the user-facing description of the failure.
func (e *UploadError) Message() string {
	if e.Err == nil {
		return "Could not update the profile picture."
	}
	return "Could not update the profile picture. " + e.Err.Error()
}
