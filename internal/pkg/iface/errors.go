package iface

import (
	"errors"
	"fmt"
)

// Sentinel errors for the kinds of failure reported while building a Config.
var (
	ErrInvalidValue     = errors.New("invalid value")
	ErrInvalidEnumValue = errors.New("invalid enum value")
	ErrValidation       = errors.New("validation failed")
)

// Names of the cross-attribute invariants, in the order they are checked.
const (
	InvariantVRRPair        = "vrr-pair"
	InvariantMLAGGroup      = "mlag-co-occurrence"
	InvariantMLAGDependency = "mlag-requires-clagd-enable"
	InvariantVRFTable       = "vrf-table-addresses"
)

// AttributeError reports a raw value that could not be normalized into its attribute's type.
type AttributeError struct {
	Attribute string
	Value     interface{}
	Reason    string
	Err       error // ErrInvalidValue or ErrInvalidEnumValue
}

func (e *AttributeError) Error() string {
	msg := fmt.Sprintf("%s for %s: %#v", e.Err, e.Attribute, e.Value)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}

func invalidValue(attr string, value interface{}, reason string) *AttributeError {
	return &AttributeError{Attribute: attr, Value: value, Reason: reason, Err: ErrInvalidValue}
}

func invalidEnum(attr string, value interface{}, allowed []string) *AttributeError {
	return &AttributeError{Attribute: attr, Value: value, Reason: fmt.Sprintf("must be one of %v", allowed), Err: ErrInvalidEnumValue}
}

// ValidationError reports a violated cross-attribute invariant.
type ValidationError struct {
	Interface string
	Invariant string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: interface %s: %s: %s", ErrValidation, e.Interface, e.Invariant, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
