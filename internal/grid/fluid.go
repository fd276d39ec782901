package grid

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/propgrid/internal/refprop"
)

// FluidMode is how a fluid descriptor is handed to the engine.
type FluidMode int

const (
	// SingleFluid is one fluid name, set with SetFluids.
	SingleFluid FluidMode = iota

	// InlineMixture is a ';'-separated fluid list, set with SetFluids.
	InlineMixture

	// MixtureFile names a predefined mixture file, set with SetMixture.
	MixtureFile
)

const mixSuffix = ".mix"

// ClassifyFluid decides the mode for desc. The ".mix" suffix is matched
// case-insensitively and only on descriptors longer than the suffix itself.
// It takes precedence over ';'.
func ClassifyFluid(desc string) FluidMode {
	folded := cases.Fold().String(desc)
	if len(folded) > len(mixSuffix) && strings.HasSuffix(folded, mixSuffix) {
		return MixtureFile
	}
	if strings.Contains(desc, ";") {
		return InlineMixture
	}
	return SingleFluid
}

// MixtureFlag returns the engine's mixture flag for m.
func (m FluidMode) MixtureFlag() int {
	if m == SingleFluid {
		return refprop.PureFluid
	}
	return refprop.Mixture
}

func (m FluidMode) String() string {
	switch m {
	case InlineMixture:
		return "inline-mixture"
	case MixtureFile:
		return "mixture-file"
	default:
		return "single-fluid"
	}
}

// componentNames splits a descriptor into per-component names for the
// trace. Missing names are filled with "component N".
func componentNames(desc string, n int) []string {
	parts := strings.Split(desc, ";")
	names := make([]string, n)
	for i := range names {
		if i < len(parts) && strings.TrimSpace(parts[i]) != "" {
			names[i] = strings.TrimSpace(parts[i])
			continue
		}
		names[i] = "component " + strconv.Itoa(i+1)
	}
	return names
}
