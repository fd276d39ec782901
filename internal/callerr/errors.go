// Package callerr defines the error kinds a property grid call can fail with.
//
// Every failure carries a Kind. Kinds group into the classes reported at the
// host boundary (ArityError, TypeError, RangeError, EngineLoadError,
// FluidSetError, UnitResolutionError, EvaluationError, UnloadWarning).
// All kinds except UNLOAD are fatal and terminate the whole call; no partial
// result grid is ever returned with an error.
package callerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one failure mode.
type Kind string

const (
	// KindOutputArity indicates the wrong number of requested outputs.
	KindOutputArity Kind = "OUTPUT_ARITY"

	// KindInputArity indicates the wrong number of positional inputs.
	KindInputArity Kind = "INPUT_ARITY"

	// KindType indicates an argument of the wrong kind.
	KindType Kind = "TYPE"

	// KindFractional indicates a flag with a fractional value.
	KindFractional Kind = "FRACTIONAL"

	// KindOutOfSet indicates a value outside its allowed set or range.
	KindOutOfSet Kind = "OUT_OF_SET"

	// KindEngineLoad indicates the engine module failed to load.
	KindEngineLoad Kind = "ENGINE_LOAD"

	// KindFluidSet indicates a non-zero code from the fluid or mixture set.
	KindFluidSet Kind = "FLUID_SET"

	// KindUnitResolution indicates the unit string did not resolve to an enum.
	KindUnitResolution Kind = "UNIT_RESOLUTION"

	// KindEvaluation indicates a non-zero code from a per-cell property call.
	KindEvaluation Kind = "EVALUATION"

	// KindUnload indicates the engine failed to unload. Never fatal.
	KindUnload Kind = "UNLOAD"
)

// Class returns the reporting class of k.
func (k Kind) Class() string {
	switch k {
	case KindOutputArity, KindInputArity:
		return "ArityError"
	case KindType:
		return "TypeError"
	case KindFractional, KindOutOfSet:
		return "RangeError"
	case KindEngineLoad:
		return "EngineLoadError"
	case KindFluidSet:
		return "FluidSetError"
	case KindUnitResolution:
		return "UnitResolutionError"
	case KindEvaluation:
		return "EvaluationError"
	case KindUnload:
		return "UnloadWarning"
	default:
		return "Error"
	}
}

// Error is a failure of one property grid call.
type Error struct {
	// Kind identifies the failure mode.
	Kind Kind

	// Message is a human-readable description.
	Message string

	// Arg names the offending argument, if any.
	Arg string

	// Code is the engine error code for engine-side failures.
	Code int

	// Detail is the engine error string for engine-side failures.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Class returns the reporting class of the error's kind.
func (e *Error) Class() string {
	return e.Kind.Class()
}

// ID returns a host-style message identifier, e.g. "propgrid:RangeError:fractional".
func (e *Error) ID() string {
	return fmt.Sprintf("propgrid:%s:%s", e.Class(), strings.ToLower(string(e.Kind)))
}

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ForArg creates an Error naming the offending argument.
func ForArg(kind Kind, arg string, format string, args ...any) *Error {
	return &Error{Kind: kind, Arg: arg, Message: fmt.Sprintf(format, args...)}
}

// Engine creates an Error carrying an engine error code and string.
func Engine(kind Kind, code int, detail string, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Detail: detail, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: err, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsArityError returns true for output or input arity errors.
func IsArityError(err error) bool {
	k := KindOf(err)
	return k == KindOutputArity || k == KindInputArity
}

// IsTypeError returns true for argument kind errors.
func IsTypeError(err error) bool {
	return KindOf(err) == KindType
}

// IsRangeError returns true for fractional and out-of-set errors.
func IsRangeError(err error) bool {
	k := KindOf(err)
	return k == KindFractional || k == KindOutOfSet
}

// IsFractional returns true when a flag carried a fractional value.
func IsFractional(err error) bool {
	return KindOf(err) == KindFractional
}

// IsOutOfSet returns true when a value was outside its allowed set.
func IsOutOfSet(err error) bool {
	return KindOf(err) == KindOutOfSet
}

// IsArgumentError returns true for any failure detected before the engine is touched.
func IsArgumentError(err error) bool {
	return IsArityError(err) || IsTypeError(err) || IsRangeError(err)
}

// IsEngineError returns true for failures reported by the engine.
func IsEngineError(err error) bool {
	switch KindOf(err) {
	case KindEngineLoad, KindFluidSet, KindUnitResolution, KindEvaluation:
		return true
	}
	return false
}
