package grid

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/roach88/propgrid/internal/callerr"
	"github.com/roach88/propgrid/internal/refprop"
)

// sessionMu serializes engine sessions. The engine's loaded fluid and unit
// state is process-global.
var sessionMu sync.Mutex

type fluidPhase int

const (
	fluidPending fluidPhase = iota
	fluidResident
)

// session is one load/unload cycle of the engine.
type session struct {
	lib    refprop.Library
	module string
	logger *slog.Logger

	fluid fluidPhase
	full  refprop.Buffer
	blank refprop.Buffer

	closed bool
}

// openSession takes the process-wide lock, loads the module from dir and
// registers dir as the engine path. The lock is held until close.
func openSession(loader refprop.Loader, dir, module string, logger *slog.Logger) (*session, error) {
	sessionMu.Lock()

	lib, err := loader.Load(dir, module)
	if err != nil {
		sessionMu.Unlock()
		return nil, callerr.Wrap(callerr.KindEngineLoad, err,
			"engine module %s failed to load from %s", module, dir)
	}
	lib.SetPath(refprop.NewBuffer(refprop.StringLen, dir))

	logger.Debug("engine session opened", "module", filepath.Join(dir, module))
	return &session{lib: lib, module: module, logger: logger}, nil
}

// setFluid hands desc to the engine according to mode. For mixture files
// the engine writes the file's composition into z.
func (s *session) setFluid(desc string, mode FluidMode, z *refprop.Composition) error {
	s.full = refprop.FluidBuffer(desc)
	s.blank = refprop.Blank(len(s.full))
	s.fluid = fluidPending

	var ierr int
	switch mode {
	case MixtureFile:
		s.logger.Info("found mixture from .mix file", "fluid", desc)
		ierr = s.lib.SetMixture(s.full, z)
	case InlineMixture:
		s.logger.Info("found mixture passed in as argument", "fluid", desc)
		ierr = s.lib.SetFluids(s.full)
	default:
		ierr = s.lib.SetFluids(s.full)
	}
	if ierr != 0 {
		return callerr.Engine(callerr.KindFluidSet, ierr, "",
			"fluid %s failed to set: error %d", desc, ierr)
	}
	return nil
}

// resolveUnits converts a unit system name into the engine's enumeration.
func (s *session) resolveUnits(units string) (int, error) {
	enum, ierr, herr := s.lib.GetEnum(refprop.EnumAllStrings, refprop.NewBuffer(refprop.StringLen, units))
	if ierr != 0 {
		return 0, callerr.Engine(callerr.KindUnitResolution, ierr, herr,
			"converting %s to enum failed: error %d -> %s", units, ierr, herr)
	}
	return enum, nil
}

// evaluate runs one property call, sending the full descriptor until the
// fluid is resident and the blank placeholder afterwards.
func (s *session) evaluate(c *refprop.Call) {
	if s.fluid == fluidResident {
		c.Fluid = s.blank
	} else {
		c.Fluid = s.full
	}
	s.lib.Evaluate(c)
	if c.Ierr == 0 && s.fluid == fluidPending {
		s.fluid = fluidResident
	}
}

// close unloads the module and releases the lock. Unload failures are
// logged and never returned. Safe to call more than once.
func (s *session) close() {
	if s.closed {
		return
	}
	s.closed = true
	defer sessionMu.Unlock()

	if err := s.lib.Unload(); err != nil {
		warn := callerr.Wrap(callerr.KindUnload, err, "engine failed to unload properly")
		s.logger.Warn("engine unload failed",
			"kind", string(warn.Kind),
			"module", s.module,
			"error", warn.Error())
		return
	}
	s.logger.Debug("engine session closed", "module", s.module)
}
