package refprop

// Buffer capacities and array lengths of the engine's calling contract.
const (
	// StringLen is the capacity of hIn, hOut, hUnits, herr, path and unit buffers.
	StringLen = 255

	// FluidLen is the capacity of the long fluid descriptor buffer.
	FluidLen = 10000

	// MaxComponents is the length of every composition array.
	MaxComponents = 20

	// MaxOutputs is the length of the output property array.
	MaxOutputs = 200

	// CompositionEpsilon is the threshold above which a fraction counts as present.
	CompositionEpsilon = 1e-9
)

// GETENUM lookup modes.
const (
	EnumAllStrings      = 0 // check all possible strings
	EnumUnitsOnly       = 1 // check units only
	EnumPropertyStrings = 2 // check property strings
	EnumNonTDProperties = 3 // check property strings that are not functions of T and D
)

// Mixture flag values passed to the property evaluation.
const (
	PureFluid = 0
	Mixture   = 1
)

// Composition is a fixed-length fraction array. Only a prefix is populated;
// the remainder is zero.
type Composition [MaxComponents]float64

// NewComposition copies fractions into a zeroed Composition.
// Fractions beyond MaxComponents are dropped; callers validate length first.
func NewComposition(fractions []float64) Composition {
	var z Composition
	copy(z[:], fractions)
	return z
}

// Components returns the length of the leading prefix of fractions above
// CompositionEpsilon.
func (z *Composition) Components() int {
	n := 0
	for n < MaxComponents && z[n] > CompositionEpsilon {
		n++
	}
	return n
}
