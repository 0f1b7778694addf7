package model

import "fmt"

// ParseError represents a malformed or structurally invalid input document
type ParseError struct {
	Version Version
	Path    string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	v := e.Version
	if v == "" {
		v = "?"
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", v, e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", v, e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error
func NewParseError(version Version, path, message string, cause error) *ParseError {
	return &ParseError{
		Version: version,
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// UnknownProfileError is returned when a profile identifier is absent or unrecognized on load,
// or when no capability entry exists for a (version, profile) pair on save
type UnknownProfileError struct {
	Version Version
	Profile Profile
	URN     string
}

func (e *UnknownProfileError) Error() string {
	if e.URN != "" {
		return fmt.Sprintf("unknown profile identifier %q for version %s", e.URN, e.Version)
	}
	if e.Profile == ProfileUnknown {
		return fmt.Sprintf("missing profile identifier for version %s", e.Version)
	}
	return fmt.Sprintf("profile %s is not defined for version %s", e.Profile, e.Version)
}

// NewUnknownProfileError creates a new unknown profile error
func NewUnknownProfileError(version Version, profile Profile, urn string) *UnknownProfileError {
	return &UnknownProfileError{
		Version: version,
		Profile: profile,
		URN:     urn,
	}
}

// UnsupportedError reports a value the requested profile cannot carry
type UnsupportedError struct {
	Version Version
	Profile Profile
	Field   string
	Value   interface{}
	Message string
}

func (e *UnsupportedError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s %s: %s not supported: %s (value=%v)", e.Version, e.Profile, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s %s: %s not supported: %s", e.Version, e.Profile, e.Field, e.Message)
}

// NewUnsupportedError creates a new unsupported error
func NewUnsupportedError(version Version, profile Profile, field string, value interface{}, message string) *UnsupportedError {
	return &UnsupportedError{
		Version: version,
		Profile: profile,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// BusinessRuleViolation represents a failed business rule
type BusinessRuleViolation struct {
	Rule    string
	Field   string
	Value   interface{}
	Message string
}

func (e *BusinessRuleViolation) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("business rule %s violated on %s: %s (value=%v)", e.Rule, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("business rule %s violated on %s: %s", e.Rule, e.Field, e.Message)
}

// NewBusinessRuleViolation creates a new business rule violation
func NewBusinessRuleViolation(rule, field string, value interface{}, message string) *BusinessRuleViolation {
	return &BusinessRuleViolation{
		Rule:    rule,
		Field:   field,
		Value:   value,
		Message: message,
	}
}
