package refprop

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrNativeUnavailable is returned by NativeLoader when the binary was built
// without a native binding for this platform (e.g. CGO_ENABLED=0 on unix).
var ErrNativeUnavailable = errors.New("refprop: native engine binding not available in this build")

// Exported entry points of the engine module.
const (
	symSetPath    = "SETPATHdll"
	symSetFluids  = "SETFLUIDSdll"
	symSetMixture = "SETMIXTUREdll"
	symGetEnum    = "GETENUMdll"
	symRefprop    = "REFPROPdll"
)

// NativeLoader loads the engine's shared module from disk.
type NativeLoader struct{}

// DefaultLibrary returns the engine module filename for the running OS.
func DefaultLibrary() string {
	switch runtime.GOOS {
	case "windows":
		return "REFPRP64.DLL"
	case "darwin":
		return "librefprop.dylib"
	default:
		return "librefprop.so"
	}
}

// symbolCandidates lists the spellings an entry point may be exported under.
// Fortran toolchains differ in case and trailing underscore.
func symbolCandidates(name string) []string {
	lower := strings.ToLower(name)
	return []string{name, name + "_", lower, lower + "_"}
}

// LoadError reports a module that could not be loaded or is missing an entry point.
type LoadError struct {
	Dir    string
	Module string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("refprop: failed to load %s from %s: %v", e.Module, e.Dir, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
