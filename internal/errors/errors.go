package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Lapse error code.
type ErrorCode string

const (
	ErrAlreadyStarted         ErrorCode = "ALREADY_STARTED"
	ErrNotStarted             ErrorCode = "NOT_STARTED"
	ErrStartInFuture          ErrorCode = "START_IN_FUTURE"
	ErrStartBeforePreviousEnd ErrorCode = "START_BEFORE_PREVIOUS_END"
	ErrStopInFuture           ErrorCode = "STOP_IN_FUTURE"
	ErrStopBeforeStart        ErrorCode = "STOP_BEFORE_START"
	ErrNoProjectGiven         ErrorCode = "NO_PROJECT_GIVEN"
	ErrInvalidInterval        ErrorCode = "INVALID_INTERVAL"
	ErrConflictingFilters     ErrorCode = "CONFLICTING_FILTERS"
	ErrNotFound               ErrorCode = "NOT_FOUND"
	ErrAmbiguousID            ErrorCode = "AMBIGUOUS_ID"
	ErrConfigurationMissing   ErrorCode = "CONFIGURATION_MISSING"
	ErrRemoteUnreachable      ErrorCode = "REMOTE_UNREACHABLE"
	ErrRemoteRejected         ErrorCode = "REMOTE_REJECTED"
	ErrMalformedData          ErrorCode = "MALFORMED_DATA"
	ErrInvalidRequest         ErrorCode = "INVALID_REQUEST"
	ErrInternal               ErrorCode = "INTERNAL"
)

// LapseError represents a structured error with code, message, and details.
type LapseError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *LapseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAlreadyStarted reports that a session is already running on project.
func NewAlreadyStarted(project string) *LapseError {
	return &LapseError{
		Code:    ErrAlreadyStarted,
		Message: fmt.Sprintf("project %q is already started", project),
		Details: map[string]any{"project": project},
	}
}

// NewNotStarted reports that no session is running.
func NewNotStarted() *LapseError {
	return &LapseError{
		Code:    ErrNotStarted,
		Message: "no project started",
	}
}

// NewStartInFuture reports a session start time in the future.
func NewStartInFuture() *LapseError {
	return &LapseError{
		Code:    ErrStartInFuture,
		Message: "task cannot start in the future",
	}
}

// NewStartBeforePreviousEnd reports a start time earlier than the stop of
// the most recent frame.
func NewStartBeforePreviousEnd() *LapseError {
	return &LapseError{
		Code:    ErrStartBeforePreviousEnd,
		Message: "task cannot start before the previous task ends",
	}
}

// NewStopInFuture reports a session stop time in the future.
func NewStopInFuture() *LapseError {
	return &LapseError{
		Code:    ErrStopInFuture,
		Message: "task cannot end in the future",
	}
}

// NewStopBeforeStart reports a stop time earlier than the session start.
func NewStopBeforeStart() *LapseError {
	return &LapseError{
		Code:    ErrStopBeforeStart,
		Message: "task cannot end before it starts",
	}
}

// NewNoProjectGiven reports a missing project name.
func NewNoProjectGiven() *LapseError {
	return &LapseError{
		Code:    ErrNoProjectGiven,
		Message: "no project given",
	}
}

// NewInvalidInterval reports a reversed time interval.
func NewInvalidInterval(msg string) *LapseError {
	return &LapseError{
		Code:    ErrInvalidInterval,
		Message: msg,
	}
}

// NewConflictingFilters reports filter and ignore sets that overlap.
func NewConflictingFilters(kind string) *LapseError {
	return &LapseError{
		Code:    ErrConflictingFilters,
		Message: fmt.Sprintf("given %s can't be ignored at the same time", kind),
		Details: map[string]any{"kind": kind},
	}
}

// NewNotFound reports a frame that cannot be found by id or position.
func NewNotFound(identifier string) *LapseError {
	return &LapseError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("frame not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewAmbiguousID reports an id prefix matching more than one frame.
func NewAmbiguousID(prefix string, count int) *LapseError {
	return &LapseError{
		Code:    ErrAmbiguousID,
		Message: fmt.Sprintf("id prefix %q matches %d frames", prefix, count),
		Details: map[string]any{"prefix": prefix, "count": count},
	}
}

// NewConfigurationMissing reports missing backend configuration.
func NewConfigurationMissing() *LapseError {
	return &LapseError{
		Code:    ErrConfigurationMissing,
		Message: "you must specify a remote URL (backend.url) and a token (backend.token)",
	}
}

// NewRemoteUnreachable reports a remote server that cannot be reached.
func NewRemoteUnreachable(err error) *LapseError {
	e := &LapseError{
		Code:    ErrRemoteUnreachable,
		Message: "unable to reach the server",
		Details: map[string]any{},
	}
	if err != nil {
		e.Details["cause"] = err.Error()
	}
	return e
}

// NewRemoteRejected reports a non-success response from the remote server.
func NewRemoteRejected(status int, body string) *LapseError {
	return &LapseError{
		Code:    ErrRemoteRejected,
		Message: fmt.Sprintf("an error occurred with the remote server (status: %d)", status),
		Details: map[string]any{"status": status, "body": body},
	}
}

// NewMalformedData reports a non-empty persisted file that fails to parse.
func NewMalformedData(path string, err error) *LapseError {
	e := &LapseError{
		Code:    ErrMalformedData,
		Message: fmt.Sprintf("invalid data file %s", path),
		Details: map[string]any{"path": path},
	}
	if err != nil {
		e.Message = fmt.Sprintf("invalid data file %s: %s", path, err)
		e.Details["cause"] = err.Error()
	}
	return e
}

// NewInvalidRequest reports invalid request parameters.
func NewInvalidRequest(msg string) *LapseError {
	return &LapseError{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewInternal reports an unexpected internal error. The message stays
// generic; the original error is kept in Details for logging.
func NewInternal(err error) *LapseError {
	e := &LapseError{
		Code:    ErrInternal,
		Message: "an internal error occurred",
		Details: map[string]any{},
	}
	if err != nil {
		e.Details["internal_error"] = err.Error()
	}
	return e
}

// Is checks if an error is a LapseError with the given code. Wrapped
// errors are unwrapped first.
func Is(err error, code ErrorCode) bool {
	var lErr *LapseError
	if stderrors.As(err, &lErr) {
		return lErr.Code == code
	}
	return false
}
