package hs900

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidState is returned when a state other than On or Off is
// requested. Nothing is sent to the instrument.
var ErrInvalidState = errors.New("hs900: channel state must be ON or OFF")

// RangeError reports a settable value outside the bounds the instrument
// advertised at channel construction. The check happens before any
// command is sent, so the instrument state is untouched.
type RangeError struct {
	Param string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("hs900: %s %v out of range [%v, %v]",
		e.Param, e.Value, e.Min, e.Max)
}

// IsRangeError checks whether err is a RangeError.
func IsRangeError(err error) bool {
	var re *RangeError
	return errors.As(err, &re)
}

// ParseError reports a reply that does not match the expected textual
// shape. It keeps the command and the raw reply for debugging against
// real hardware.
type ParseError struct {
	Command string
	Reply   string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("hs900: cannot parse reply %q to %q: %s",
		e.Reply, e.Command, e.Reason)
}

// IsParseError checks whether err is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// ProtocolError reports a set command whose reply was not the exact
// acknowledgment literal. The write may or may not have taken effect;
// the driver makes no attempt to retry or recover.
type ProtocolError struct {
	Command  string
	Expected string
	Reply    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("hs900: command %q not acknowledged: expected %q, got %q",
		e.Command, e.Expected, e.Reply)
}

// IsProtocolError checks whether err is a ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// ConfigurationError reports an unrecognized instrument model in strict
// mode.
type ConfigurationError struct {
	Model string
	Known []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("hs900: unknown model %q, known models are %s",
		e.Model, strings.Join(e.Known, ", "))
}

// IsConfigurationError checks whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
