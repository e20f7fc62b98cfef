package services

import (
	"errors"
	"strings"
)

var (
	ErrAcquisition   = errors.New("acquisition failed")
	ErrTranscription = errors.New("transcription failed")
	ErrSummarization = errors.New("summarization failed")
	ErrPersistence   = errors.New("persistence failed")
	ErrConfiguration = errors.New("configuration error")
)

// Failure is the structured error produced by Wrap. It records which
// stage failed, the operation that was underway, and an operator-facing
// message alongside the underlying cause.
type Failure struct {
	Stage     string
	Operation string
	Message   string
	Cause     error

	marker error
}

// Wrap builds a stage failure tagged with the provided marker for later
// classification. The marker should be one of the exported sentinel
// errors above; message carries the human-readable cause shown to users.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrConfiguration
	}
	return &Failure{
		Stage:     strings.TrimSpace(stage),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Cause:     err,
		marker:    marker,
	}
}

func (f *Failure) Error() string {
	parts := make([]string, 0, 4)
	parts = append(parts, f.marker.Error())
	if f.Stage != "" {
		parts = append(parts, f.Stage)
	}
	if f.Operation != "" {
		parts = append(parts, f.Operation)
	}
	if f.Message != "" {
		parts = append(parts, f.Message)
	}
	joined := strings.Join(parts, ": ")
	if f.Cause != nil {
		return joined + ": " + f.Cause.Error()
	}
	return joined
}

// Unwrap exposes both the classification marker and the underlying cause
// so errors.Is matches either.
func (f *Failure) Unwrap() []error {
	if f.Cause != nil {
		return []error{f.marker, f.Cause}
	}
	return []error{f.marker}
}

// Marker returns the sentinel the failure was tagged with.
func (f *Failure) Marker() error {
	return f.marker
}

// Details extracts the structured failure from an error chain. The
// returned Failure is never nil; for untagged errors it carries the
// error text as the message with no stage attribution.
func Details(err error) *Failure {
	if err == nil {
		return &Failure{}
	}
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	return &Failure{Message: err.Error(), Cause: err}
}

// UserMessage renders the part of a failure meant for humans: the stage
// message when one was recorded, otherwise the full error text.
func UserMessage(err error) string {
	details := Details(err)
	if details.Message != "" {
		return details.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// Fatal reports whether the failure halts the pipeline. Persistence
// failures degrade the run instead of failing it.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrPersistence)
}
