package reservation

import "errors"

// Kind groups domain errors by how callers should react to them.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindForbidden    Kind = "forbidden"
	KindValidation   Kind = "validation"
)

// Error is a domain error raised by the orchestrator.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches domain errors by code so a reworded error still compares equal
// to its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrMachineNotFound     = newError(KindNotFound, "machine_not_found", "machine not found")
	ErrSessionNotFound     = newError(KindNotFound, "session_not_found", "usage session not found")
	ErrNotQueued           = newError(KindNotFound, "not_queued", "you are not in the queue for this machine")
	ErrNoActiveUsage       = newError(KindNotFound, "no_active_usage", "you have no active usage")
	ErrAlreadyQueued       = newError(KindConflict, "already_queued", "you are already in the queue for this machine")
	ErrAlreadyActive       = newError(KindConflict, "already_active", "you already have an active usage; finish it before starting another")
	ErrNotAvailable        = newError(KindInvalidState, "not_available", "machine is not available")
	ErrNotNotified         = newError(KindInvalidState, "not_notified", "you have not been notified yet")
	ErrNotificationExpired = newError(KindInvalidState, "notification_expired", "your notification has expired")
	ErrAlreadyFinished     = newError(KindInvalidState, "already_finished", "this usage has already been finished")
	ErrMachineBusy         = newError(KindInvalidState, "machine_busy", "machine has an active usage")
	ErrForbidden           = newError(KindForbidden, "forbidden", "you are not allowed to act on this resource")
	ErrInvalidMachine      = newError(KindValidation, "invalid_machine", "invalid machine definition")
)

// KindOf returns the Kind of a domain error, or "" for anything else.
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}
