package testutil

import (
	"path/filepath"
	"sync"

	"github.com/roach88/propgrid/internal/refprop"
)

// FakeCall records the inputs of one Evaluate call.
type FakeCall struct {
	Fluid   string
	In      string
	Out     string
	A       float64
	B       float64
	Units   int
	Mass    int
	Mixture int
	Z       refprop.Composition
}

// FakeLibrary is a scripted refprop.Library for tests.
//
// By default every evaluation succeeds with Output[0] = A + B. Configure the
// exported fields before use to script failures; inspect the recorded fields
// afterwards.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FakeLibrary struct {
	mu sync.Mutex

	// Property computes Output[0] for a cell. Nil means A + B.
	Property func(out, in string, a, b float64) float64

	// OutUnits is reported as the units of Output[0].
	OutUnits string

	// UnitCode is reported as the unit code of Output[0].
	UnitCode int

	// FailAt is the 1-based Evaluate call that fails; 0 never fails.
	FailAt      int
	FailCode    int
	FailMessage string

	// FluidsErr and MixtureErr are returned by SetFluids and SetMixture.
	FluidsErr  int
	MixtureErr int

	// MixtureFractions is written into z by SetMixture.
	MixtureFractions []float64

	// Enums maps unit strings to their enumeration; unknown strings fail
	// with EnumErr (or 1 when EnumErr is zero).
	Enums       map[string]int
	EnumErr     int
	EnumMessage string

	// UnloadErr is returned by Unload.
	UnloadErr error

	// Recorded interactions.
	Path        string
	FluidsSet   []string
	MixturesSet []string
	EnumLookups []string
	EnumModes   []int
	Calls       []FakeCall
	Unloads     int
}

// NewFakeLibrary returns a FakeLibrary that resolves the common unit systems.
func NewFakeLibrary() *FakeLibrary {
	return &FakeLibrary{
		OutUnits: "kg/m^3",
		Enums: map[string]int{
			"DEFAULT":   0,
			"SI":        21,
			"SI WITH C": 22,
			"MOLAR SI":  23,
			"MASS SI":   24,
			"ENGLISH":   25,
			"CGS":       26,
			"MKS":       27,
		},
	}
}

// SetPath implements refprop.Library.
func (f *FakeLibrary) SetPath(path refprop.Buffer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Path = path.String()
}

// SetMixture implements refprop.Library.
func (f *FakeLibrary) SetMixture(file refprop.Buffer, z *refprop.Composition) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MixturesSet = append(f.MixturesSet, file.String())
	if f.MixtureErr != 0 {
		return f.MixtureErr
	}
	if f.MixtureFractions != nil {
		*z = refprop.NewComposition(f.MixtureFractions)
	}
	return 0
}

// SetFluids implements refprop.Library.
func (f *FakeLibrary) SetFluids(fluids refprop.Buffer) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FluidsSet = append(f.FluidsSet, fluids.String())
	return f.FluidsErr
}

// GetEnum implements refprop.Library.
func (f *FakeLibrary) GetEnum(mode int, s refprop.Buffer) (int, int, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := s.String()
	f.EnumLookups = append(f.EnumLookups, key)
	f.EnumModes = append(f.EnumModes, mode)
	if enum, ok := f.Enums[key]; ok {
		return enum, 0, ""
	}
	code := f.EnumErr
	if code == 0 {
		code = 1
	}
	msg := f.EnumMessage
	if msg == "" {
		msg = "[GETENUM error 1] Unknown string: " + key
	}
	return 0, code, msg
}

// Evaluate implements refprop.Library.
func (f *FakeLibrary) Evaluate(c *refprop.Call) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, FakeCall{
		Fluid:   c.Fluid.String(),
		In:      c.In.String(),
		Out:     c.Out.String(),
		A:       c.A,
		B:       c.B,
		Units:   c.Units,
		Mass:    c.Mass,
		Mixture: c.Mixture,
		Z:       c.Z,
	})

	c.ResetOutputs()
	if f.FailAt == len(f.Calls) {
		c.Ierr = f.FailCode
		if c.Ierr == 0 {
			c.Ierr = 1
		}
		c.Herr.Set(f.FailMessage)
		return
	}

	if f.Property != nil {
		c.Output[0] = f.Property(c.Out.String(), c.In.String(), c.A, c.B)
	} else {
		c.Output[0] = c.A + c.B
	}
	c.OutUnits.Set(f.OutUnits)
	c.UnitCode = f.UnitCode
	c.X = c.Z
	c.Y = c.Z
	c.Q = 0
}

// Unload implements refprop.Library.
func (f *FakeLibrary) Unload() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Unloads++
	return f.UnloadErr
}

// CallCount returns the number of Evaluate calls made so far.
func (f *FakeLibrary) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// UnloadCount returns the number of Unload calls made so far.
func (f *FakeLibrary) UnloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Unloads
}

// FakeLoader hands out a FakeLibrary, or fails with Err.
type FakeLoader struct {
	mu sync.Mutex

	Library *FakeLibrary
	Err     error

	// Loads records the joined directory and module of every Load call.
	Loads []string
}

// NewFakeLoader returns a loader serving lib.
func NewFakeLoader(lib *FakeLibrary) *FakeLoader {
	return &FakeLoader{Library: lib}
}

// Load implements refprop.Loader.
func (l *FakeLoader) Load(dir, name string) (refprop.Library, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Loads = append(l.Loads, filepath.Join(dir, name))
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Library, nil
}

// LoadCount returns the number of Load calls made so far.
func (l *FakeLoader) LoadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Loads)
}
