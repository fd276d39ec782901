package callerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindClass(t *testing.T) {
	tests := []struct {
		kind  Kind
		class string
	}{
		{KindOutputArity, "ArityError"},
		{KindInputArity, "ArityError"},
		{KindType, "TypeError"},
		{KindFractional, "RangeError"},
		{KindOutOfSet, "RangeError"},
		{KindEngineLoad, "EngineLoadError"},
		{KindFluidSet, "FluidSetError"},
		{KindUnitResolution, "UnitResolutionError"},
		{KindEvaluation, "EvaluationError"},
		{KindUnload, "UnloadWarning"},
		{Kind("SOMETHING_ELSE"), "Error"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.class, tt.kind.Class())
		})
	}
}

func TestError_Message(t *testing.T) {
	err := ForArg(KindFractional, "massOrMole", "decimal values of %s are invalid: %f", "massOrMole", 1.5)
	assert.Equal(t, "FRACTIONAL: decimal values of massOrMole are invalid: 1.500000", err.Error())
	assert.Equal(t, "massOrMole", err.Arg)
	assert.Equal(t, "propgrid:RangeError:fractional", err.ID())
}

func TestError_WrapUnwraps(t *testing.T) {
	cause := errors.New("dlopen failed")
	err := Wrap(KindEngineLoad, cause, "engine failed to load from %s", "/opt/refprop")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "ENGINE_LOAD: engine failed to load from /opt/refprop: dlopen failed", err.Error())
}

func TestEngineError_CarriesCode(t *testing.T) {
	err := Engine(KindEvaluation, 203, "temperature below lower limit", "property call failed")
	assert.Equal(t, 203, err.Code)
	assert.Equal(t, "temperature below lower limit", err.Detail)
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	base := New(KindOutOfSet, "massOrMole input of 2 is invalid")
	wrapped := fmt.Errorf("call: %w", base)

	assert.Equal(t, KindOutOfSet, KindOf(wrapped))
	assert.True(t, IsRangeError(wrapped))
	assert.True(t, IsOutOfSet(wrapped))
	assert.False(t, IsFractional(wrapped))
	assert.True(t, IsArgumentError(wrapped))
	assert.False(t, IsEngineError(wrapped))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsArityError(New(KindOutputArity, "x")))
	assert.True(t, IsArityError(New(KindInputArity, "x")))
	assert.True(t, IsTypeError(New(KindType, "x")))
	assert.True(t, IsFractional(New(KindFractional, "x")))

	for _, k := range []Kind{KindEngineLoad, KindFluidSet, KindUnitResolution, KindEvaluation} {
		assert.Truef(t, IsEngineError(New(k, "x")), "kind %s", k)
	}
	assert.False(t, IsEngineError(New(KindUnload, "x")))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
