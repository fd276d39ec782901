//go:build !windows && !(cgo && (linux || darwin || freebsd))

package refprop

// Load always fails: this build has no way to open a shared module.
func (NativeLoader) Load(dir, name string) (Library, error) {
	return nil, &LoadError{Dir: dir, Module: name, Err: ErrNativeUnavailable}
}
