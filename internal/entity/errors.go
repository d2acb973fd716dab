package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Local errors, raised before any I/O
	ErrValidation   = errors.New("validation error")
	ErrPrecondition = errors.New("precondition error")

	// Remote errors, one per backend call
	ErrUpload   = errors.New("upload error")
	ErrChat     = errors.New("chat error")
	ErrHistory  = errors.New("clear history error")
	ErrDocument = errors.New("delete documents error")

	// File errors
	ErrMissingFile      = errors.New("file is missing")
	ErrFileTooLarge     = errors.New("file too large")
	ErrEmptyFile        = errors.New("file is empty")
	ErrInvalidExtension = errors.New("invalid file extension")

	// Chat errors
	ErrEmptyQuestion   = errors.New("question is empty")
	ErrQuestionTooLong = errors.New("question too long")
	ErrNoDocuments     = errors.New("no documents uploaded")
	ErrChatInFlight    = errors.New("a chat request is already in progress")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// RemoteError is a failed backend call. It matches its Kind with errors.Is
// and unwraps to the transport error.
type RemoteError struct {
	Kind    error
	Message string
	Err     error
}

func NewRemoteError(kind error, message string, err error) *RemoteError {
	return &RemoteError{Kind: kind, Message: message, Err: err}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *RemoteError) Is(target error) bool {
	return target == e.Kind
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
