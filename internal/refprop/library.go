package refprop

// Call holds the arguments of one property evaluation. Input fields are set
// by the caller; output fields are written by the engine.
type Call struct {
	// Inputs
	Fluid   Buffer      // fluid descriptor or the blank placeholder
	In      Buffer      // independent-variable pair code (e.g. "TP")
	Out     Buffer      // requested output property code (e.g. "D")
	Units   int         // unit system enumeration from GetEnum
	Mass    int         // 0 molar, 1 mass basis
	Mixture int         // PureFluid or Mixture
	A, B    float64     // independent variable values
	Z       Composition // bulk composition

	// Outputs
	Output   [MaxOutputs]float64
	OutUnits Buffer // units of Output[0]
	UnitCode int    // unit code of Output[0]
	X        Composition
	Y        Composition
	X3       Composition
	Q        float64 // vapour quality
	Ierr     int
	Herr     Buffer
}

// NewCall allocates a Call with its output buffers sized to the contract.
func NewCall() *Call {
	return &Call{
		OutUnits: NewBuffer(StringLen, ""),
		Herr:     NewBuffer(StringLen, ""),
	}
}

// ResetOutputs clears the per-call outputs before the call is reused.
func (c *Call) ResetOutputs() {
	c.Output = [MaxOutputs]float64{}
	c.OutUnits.Set("")
	c.UnitCode = 0
	c.X = Composition{}
	c.Y = Composition{}
	c.X3 = Composition{}
	c.Q = 0
	c.Ierr = 0
	c.Herr.Set("")
}

// Library is one loaded instance of the engine module.
type Library interface {
	// SetPath registers the engine's installation directory.
	SetPath(path Buffer)

	// SetMixture loads a mixture definition file and writes its
	// composition into z. Returns the engine error code.
	SetMixture(file Buffer, z *Composition) int

	// SetFluids loads a fluid or ';'-separated fluid list.
	// Returns the engine error code.
	SetFluids(fluids Buffer) int

	// GetEnum resolves a string to the engine's enumeration.
	GetEnum(mode int, s Buffer) (enum int, ierr int, herr string)

	// Evaluate performs one property evaluation in place.
	Evaluate(c *Call)

	// Unload releases the module. Calling it again is a no-op.
	Unload() error
}

// Loader loads the engine module named name from directory dir.
type Loader interface {
	Load(dir, name string) (Library, error)
}
