// Package args adapts host arguments into a typed property grid call.
//
// Adapt checks, in this fixed order, stopping at the first failure:
//
//  1. output arity (exactly one output)
//  2. input arity (exactly ten inputs)
//  3. the class of each input, in input order
//  4. massOrMole: fractional values, then values outside {0, 1}
//  5. debugFlag: fractional values, then values outside {0, 1}
//  6. empty value axes and oversized compositions
//  7. strings too long for their engine buffer
//
// Callers asserting on which error fires for input with several violations
// rely on this order.
package args

import (
	"math"

	"github.com/roach88/propgrid/internal/callerr"
	"github.com/roach88/propgrid/internal/hostarg"
	"github.com/roach88/propgrid/internal/refprop"
)

const (
	// ExpectedOutputs is the number of outputs a call returns.
	ExpectedOutputs = 1

	// ExpectedInputs is the number of positional inputs a call takes.
	ExpectedInputs = 10

	// fractionTolerance is how far a flag may sit from an integer before it
	// counts as fractional.
	fractionTolerance = 0.01
)

// Input positions.
const (
	ArgPropReq = iota
	ArgSpec
	ArgValue1
	ArgValue2
	ArgFluid
	ArgMass
	ArgComposition
	ArgUnits
	ArgPath
	ArgDebug
)

type argSpec struct {
	name  string
	class string
	hint  string
}

var inputs = [ExpectedInputs]argSpec{
	ArgPropReq:     {"propReq", "char", ""},
	ArgSpec:        {"spec", "char", ""},
	ArgValue1:      {"value1", "double", ""},
	ArgValue2:      {"value2", "double", ""},
	ArgFluid:       {"fluid", "char", ""},
	ArgMass:        {"massOrMole", "double", " with values of 0 or 1"},
	ArgComposition: {"composition", "double", " with values between 0 and 1"},
	ArgUnits:       {"units", "char", ""},
	ArgPath:        {"path", "char", ""},
	ArgDebug:       {"debugFlag", "double", " with values of 0 or 1"},
}

// Call is a validated, typed property grid call.
type Call struct {
	PropReq     string
	SpecPair    string
	Values1     []float64
	Values2     []float64
	Fluid       string
	Mass        int
	Composition refprop.Composition
	Units       string
	Path        string
	Debug       bool
}

// Adapt validates nout and in and converts them into a Call.
// The returned error is always a *callerr.Error.
func Adapt(nout int, in []hostarg.Value) (*Call, error) {
	if nout != ExpectedOutputs {
		return nil, callerr.New(callerr.KindOutputArity,
			"incorrect number of outputs were given, only %d output is allowed", ExpectedOutputs)
	}
	if len(in) != ExpectedInputs {
		return nil, callerr.New(callerr.KindInputArity,
			"%d inputs were given, but %d are expected", len(in), ExpectedInputs)
	}

	for i, spec := range inputs {
		if hostarg.Class(in[i]) != spec.class {
			return nil, callerr.ForArg(callerr.KindType, spec.name,
				"input variable %s expected to be of type %s%s", spec.name, spec.class, spec.hint)
		}
	}

	mass, err := binaryFlag(in[ArgMass].(hostarg.Double), inputs[ArgMass].name)
	if err != nil {
		return nil, err
	}
	debug, err := binaryFlag(in[ArgDebug].(hostarg.Double), inputs[ArgDebug].name)
	if err != nil {
		return nil, err
	}

	values1 := in[ArgValue1].(hostarg.Double)
	values2 := in[ArgValue2].(hostarg.Double)
	for _, ax := range []struct {
		name string
		v    hostarg.Double
	}{{inputs[ArgValue1].name, values1}, {inputs[ArgValue2].name, values2}} {
		if ax.v.Numel() == 0 {
			return nil, callerr.ForArg(callerr.KindOutOfSet, ax.name,
				"input variable %s must hold at least one value", ax.name)
		}
	}

	z := in[ArgComposition].(hostarg.Double)
	if z.Numel() > refprop.MaxComponents {
		return nil, callerr.ForArg(callerr.KindOutOfSet, inputs[ArgComposition].name,
			"composition has %d entries, at most %d components are supported",
			z.Numel(), refprop.MaxComponents)
	}

	for _, arg := range []int{ArgPropReq, ArgSpec, ArgFluid, ArgUnits, ArgPath} {
		name := inputs[arg].name
		s := string(in[arg].(hostarg.Char))
		size := bufferSize(arg)
		if !refprop.Fits(size, s) {
			return nil, callerr.ForArg(callerr.KindOutOfSet, name,
				"input variable %s is %d bytes long, at most %d are supported", name, len(s), size-1)
		}
	}

	return &Call{
		PropReq:     string(in[ArgPropReq].(hostarg.Char)),
		SpecPair:    string(in[ArgSpec].(hostarg.Char)),
		Values1:     values1.Vector(),
		Values2:     values2.Vector(),
		Fluid:       string(in[ArgFluid].(hostarg.Char)),
		Mass:        mass,
		Composition: refprop.NewComposition(z.Data),
		Units:       string(in[ArgUnits].(hostarg.Char)),
		Path:        string(in[ArgPath].(hostarg.Char)),
		Debug:       debug == 1,
	}, nil
}

// binaryFlag reads a 0/1 flag from the first element of d. A fractional
// value is rejected before an out-of-set one.
func binaryFlag(d hostarg.Double, name string) (int, error) {
	if d.Numel() == 0 {
		return 0, callerr.ForArg(callerr.KindOutOfSet, name,
			"%s is empty, acceptable values are 0 and 1", name)
	}
	x := d.Scalar()
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, callerr.ForArg(callerr.KindOutOfSet, name,
			"%s input of %v is invalid, acceptable values are 0 and 1", name, x)
	}

	whole := math.Trunc(x)
	if math.Abs(x-whole) > fractionTolerance {
		return 0, callerr.ForArg(callerr.KindFractional, name,
			"decimal values of %s are invalid: %f, acceptable values are integers 0 and 1", name, x)
	}

	n := int(whole)
	if n != 0 && n != 1 {
		return 0, callerr.ForArg(callerr.KindOutOfSet, name,
			"%s input of %d is invalid, acceptable values are 0 and 1", name, n)
	}
	return n, nil
}

// bufferSize is the engine buffer capacity a string input is copied into.
func bufferSize(arg int) int {
	if arg == ArgFluid {
		return refprop.FluidLen
	}
	return refprop.StringLen
}
