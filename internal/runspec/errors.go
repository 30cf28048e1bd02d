package runspec

import "fmt"

// Kind discriminates the configuration error taxonomy. Each rejected field
// maps to exactly one kind so callers can branch without string matching.
type Kind string

const (
	KindMissingRequiredField Kind = "missing_required_field"
	KindInvalidNumber        Kind = "invalid_number"
	KindInvalidBool          Kind = "invalid_bool"
	KindInvalidCadence       Kind = "invalid_cadence"
	KindAmbiguousBudget      Kind = "ambiguous_budget"
	KindMalformedOverride    Kind = "malformed_override"
	KindUnknownModel         Kind = "unknown_model"
	KindUnknownWrapper       Kind = "unknown_wrapper"
	KindEmptyWrapperSegment  Kind = "empty_wrapper_segment"
	KindWrappersRequired     Kind = "wrappers_required"
)

// ConfigError reports a malformed or missing field in the raw run
// declaration. Field names the offending input; Detail carries the value or
// underlying cause.
type ConfigError struct {
	Kind   Kind
	Field  string
	Detail string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("config error (%s): field %q", e.Kind, e.Field)
	}
	return fmt.Sprintf("config error (%s): field %q: %s", e.Kind, e.Field, e.Detail)
}
