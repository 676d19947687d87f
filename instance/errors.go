package instance

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for configuration loading and resolution. Errors
// carrying additional detail wrap one of these, so callers can branch
// with errors.Is without parsing messages.
var (
	// ErrNotLoaded is returned by accessors called before a successful
	// Load.
	ErrNotLoaded = errors.New("instance: configuration not loaded")

	// ErrConfigNotFound is returned when every configuration source
	// comes up empty and Load was asked to be strict.
	ErrConfigNotFound = errors.New("instance: no configuration found")

	// ErrFileNotFound is returned when an explicitly supplied config
	// path does not exist. An explicit path never falls through.
	ErrFileNotFound = errors.New("instance: config file not found")

	// ErrInvalidJSON is returned when a configuration document cannot
	// be parsed.
	ErrInvalidJSON = errors.New("instance: config is not valid JSON")

	// ErrInvalidConfig is wrapped by ValidationError.
	ErrInvalidConfig = errors.New("instance: config validation failed")

	// ErrLegacyIncomplete is returned when the legacy environment pair
	// is only partially set. A half-configured environment fails loudly
	// instead of silently falling through.
	ErrLegacyIncomplete = errors.New("instance: legacy configuration incomplete")

	// ErrDefaultInstanceNotFound guards the invariant that the default
	// instance exists. Validation should make it unreachable.
	ErrDefaultInstanceNotFound = errors.New("instance: default instance not found")

	// ErrInstanceNotFound is wrapped by InstanceNotFoundError.
	ErrInstanceNotFound = errors.New("instance: instance not found")

	// ErrTokenMissing is wrapped by TokenError.
	ErrTokenMissing = errors.New("instance: token missing")
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ValidationError reports every invariant a configuration document
// violates, not just the first.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("%v: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidConfig }

// NotFoundError reports that no configuration source yielded a document,
// naming every location searched.
type NotFoundError struct {
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v (searched: %s)", ErrConfigNotFound, strings.Join(e.Searched, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// InstanceNotFoundError reports resolution of a name that matches no
// configured instance.
type InstanceNotFoundError struct {
	Name string
}

func (e *InstanceNotFoundError) Error() string {
	return fmt.Sprintf("%v: no instance named %q", ErrInstanceNotFound, e.Name)
}

func (e *InstanceNotFoundError) Unwrap() error { return ErrInstanceNotFound }

// TokenError reports a missing or blank credential for an instance. Slot
// names the environment variable consulted; the credential value itself
// is never part of the error.
type TokenError struct {
	Slot     string
	Instance string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("%v: environment variable %s for instance %q is not set or blank", ErrTokenMissing, e.Slot, e.Instance)
}

func (e *TokenError) Unwrap() error { return ErrTokenMissing }
