// Package errs defines the structured error taxonomy surfaced at the
// boundary of the reasoner (spec §7): InvalidIRI, UnsupportedConstruct,
// Inconsistent, Timeout, Cancelled, InternalInvariantViolated.
package errs

import "fmt"

// Kind is a stable, machine-handleable error tag.
type Kind string

const (
	InvalidIRI                Kind = "InvalidIRI"
	UnsupportedConstruct      Kind = "UnsupportedConstruct"
	Inconsistent               Kind = "Inconsistent"
	Timeout                    Kind = "Timeout"
	Cancelled                  Kind = "Cancelled"
	InternalInvariantViolated Kind = "InternalInvariantViolated"
)

// Error is the structured error type returned by every public operation
// in this module. It wraps an optional cause without losing the stable
// Kind tag, so callers can branch on Kind while still unwrapping for
// diagnostics.
type Error struct {
	Kind Kind

	// Construct names the unsupported construct, set only for
	// UnsupportedConstruct.
	Construct string

	// Detail is a free-form diagnostic, set only for
	// InternalInvariantViolated.
	Detail string

	// Trace is a short human-readable blocking-witness trace, set only
	// when Kind is Inconsistent or the error arose from an
	// unsatisfiability result the caller asked to explain.
	Trace string

	cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnsupportedConstruct:
		if e.Construct != "" {
			return fmt.Sprintf("unsupported construct: %s", e.Construct)
		}
		return "unsupported construct"
	case InternalInvariantViolated:
		if e.Detail != "" {
			return fmt.Sprintf("internal invariant violated: %s", e.Detail)
		}
		return "internal invariant violated"
	default:
		if e.cause != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.cause)
		}
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, errs.New(errs.Inconsistent)).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// New builds a bare Error carrying only a Kind.
func New(kind Kind) *Error { return &Error{Kind: kind} }

// Wrap builds an Error of the given Kind around a lower-level cause.
func Wrap(kind Kind, cause error) *Error { return &Error{Kind: kind, cause: cause} }

// Unsupported builds an UnsupportedConstruct error naming the construct.
func Unsupported(construct string) *Error {
	return &Error{Kind: UnsupportedConstruct, Construct: construct}
}

// Invariant builds an InternalInvariantViolated error with a detail message.
func Invariant(detail string) *Error {
	return &Error{Kind: InternalInvariantViolated, Detail: detail}
}

// WithTrace attaches a blocking-witness trace to an existing error and
// returns it for chaining.
func (e *Error) WithTrace(trace string) *Error {
	e.Trace = trace
	return e
}

// IsKind reports whether err is an *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
