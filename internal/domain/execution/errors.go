package execution

import "errors"

// Kind classifies the errors the execution core distinguishes, so that the
// HTTP layer can map them to status codes without inspecting error text.
type Kind string

const (
	InvalidName         Kind = "invalid_name"
	ScriptNotFound      Kind = "script_not_found"
	ScriptAlreadyExists Kind = "script_already_exists"
	Io                  Kind = "io"
	SpawnFailed         Kind = "spawn_failed"
	Timeout             Kind = "timeout"
	BadRequest          Kind = "bad_request"
)

// Error is the structured error type returned by the registry, cache,
// supervisor, and CRUD layers. It carries a Kind so callers can branch on
// category and a human-readable Message with no stack or interpreter
// detail beyond what the caller already supplied.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error, and
// reports false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
