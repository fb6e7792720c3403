package session

import (
	"fmt"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeClosed             = "SESSION_CLOSED"
	TextCodeDeferredUnresolved = "DEFERRED_LOAD_UNRESOLVED"
	TextCodeTooManyResults     = "TOO_MANY_RESULTS"
	TextCodePropertyAssignment = "PROPERTY_ASSIGNMENT"
	TextCodeQueryInFlight      = "QUERY_IN_FLIGHT"
)

func errClosed(sessionID string) error {
	return errors.New("session was closed", errors.CategoryOperation).
		WithTextCode(TextCodeClosed).
		WithMetadata(map[string]any{"session": sessionID})
}

func errUnresolved(property string, key fmt.Stringer) error {
	return errors.New(fmt.Sprintf("deferred load of %s never resolved", property), errors.CategoryInternal).
		WithTextCode(TextCodeDeferredUnresolved).
		WithMetadata(map[string]any{"property": property, "key": key.String()})
}

func errTooManyResults(count int) error {
	return errors.New(fmt.Sprintf("expected one result (or none) but found %d", count), errors.CategoryBadInput).
		WithTextCode(TextCodeTooManyResults).
		WithMetadata(map[string]any{"count": count})
}

func errProperty(property string, target any, reason string) error {
	return errors.New(fmt.Sprintf("cannot assign %s on %T: %s", property, target, reason), errors.CategoryBadInput).
		WithTextCode(TextCodePropertyAssignment)
}

func errInFlight(statementID string) error {
	return errors.New(fmt.Sprintf("query %s is already running in this session; use DeferLoad for cyclic references", statementID), errors.CategoryConflict).
		WithTextCode(TextCodeQueryInFlight)
}

// IsClosed reports whether err was returned by a closed session.
func IsClosed(err error) bool {
	return hasTextCode(err, TextCodeClosed)
}

// IsUnresolved reports whether err reports a deferred load that never resolved.
func IsUnresolved(err error) bool {
	return hasTextCode(err, TextCodeDeferredUnresolved)
}

func hasTextCode(err error, code string) bool {
	var e *errors.Error
	if !errors.As(err, &e) {
		return false
	}
	return e.TextCode == code
}
