//go:build windows

package refprop

import (
	"fmt"
	"path/filepath"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

type nativeLibrary struct {
	dll        *windows.DLL
	setPath    *windows.Proc
	setFluids  *windows.Proc
	setMixture *windows.Proc
	getEnum    *windows.Proc
	refprop    *windows.Proc
}

// Load opens dir\name with LoadLibrary and resolves the engine entry points.
func (NativeLoader) Load(dir, name string) (Library, error) {
	dll, err := windows.LoadDLL(filepath.Join(dir, name))
	if err != nil {
		return nil, &LoadError{Dir: dir, Module: name, Err: err}
	}

	lib := &nativeLibrary{dll: dll}
	entries := []struct {
		name string
		dst  **windows.Proc
	}{
		{symSetPath, &lib.setPath},
		{symSetFluids, &lib.setFluids},
		{symSetMixture, &lib.setMixture},
		{symGetEnum, &lib.getEnum},
		{symRefprop, &lib.refprop},
	}
	for _, e := range entries {
		p := findProc(dll, e.name)
		if p == nil {
			dll.Release()
			return nil, &LoadError{Dir: dir, Module: name, Err: fmt.Errorf("missing entry point %s", e.name)}
		}
		*e.dst = p
	}
	return lib, nil
}

func findProc(dll *windows.DLL, name string) *windows.Proc {
	for _, candidate := range symbolCandidates(name) {
		if p, err := dll.FindProc(candidate); err == nil {
			return p
		}
	}
	return nil
}

func (l *nativeLibrary) SetPath(path Buffer) {
	l.setPath.Call(uintptr(unsafe.Pointer(&path[0])), uintptr(len(path)))
	runtime.KeepAlive(path)
}

func (l *nativeLibrary) SetFluids(fluids Buffer) int {
	var ierr int32
	l.setFluids.Call(
		uintptr(unsafe.Pointer(&fluids[0])),
		uintptr(unsafe.Pointer(&ierr)),
		uintptr(len(fluids)))
	runtime.KeepAlive(fluids)
	return int(ierr)
}

func (l *nativeLibrary) SetMixture(file Buffer, z *Composition) int {
	var ierr int32
	l.setMixture.Call(
		uintptr(unsafe.Pointer(&file[0])),
		uintptr(unsafe.Pointer(&z[0])),
		uintptr(unsafe.Pointer(&ierr)),
		uintptr(len(file)))
	runtime.KeepAlive(file)
	runtime.KeepAlive(z)
	return int(ierr)
}

func (l *nativeLibrary) GetEnum(mode int, s Buffer) (int, int, string) {
	cmode := int32(mode)
	var enum, ierr int32
	herr := NewBuffer(StringLen, "")
	l.getEnum.Call(
		uintptr(unsafe.Pointer(&cmode)),
		uintptr(unsafe.Pointer(&s[0])),
		uintptr(unsafe.Pointer(&enum)),
		uintptr(unsafe.Pointer(&ierr)),
		uintptr(unsafe.Pointer(&herr[0])),
		uintptr(len(s)), uintptr(len(herr)))
	runtime.KeepAlive(s)
	runtime.KeepAlive(herr)
	return int(enum), int(ierr), herr.String()
}

func (l *nativeLibrary) Evaluate(c *Call) {
	units := int32(c.Units)
	mass := int32(c.Mass)
	mix := int32(c.Mixture)
	var ucode, ierr int32

	l.refprop.Call(
		uintptr(unsafe.Pointer(&c.Fluid[0])),
		uintptr(unsafe.Pointer(&c.In[0])),
		uintptr(unsafe.Pointer(&c.Out[0])),
		uintptr(unsafe.Pointer(&units)),
		uintptr(unsafe.Pointer(&mass)),
		uintptr(unsafe.Pointer(&mix)),
		uintptr(unsafe.Pointer(&c.A)),
		uintptr(unsafe.Pointer(&c.B)),
		uintptr(unsafe.Pointer(&c.Z[0])),
		uintptr(unsafe.Pointer(&c.Output[0])),
		uintptr(unsafe.Pointer(&c.OutUnits[0])),
		uintptr(unsafe.Pointer(&ucode)),
		uintptr(unsafe.Pointer(&c.X[0])),
		uintptr(unsafe.Pointer(&c.Y[0])),
		uintptr(unsafe.Pointer(&c.X3[0])),
		uintptr(unsafe.Pointer(&c.Q)),
		uintptr(unsafe.Pointer(&ierr)),
		uintptr(unsafe.Pointer(&c.Herr[0])),
		uintptr(len(c.Fluid)), uintptr(len(c.In)), uintptr(len(c.Out)),
		uintptr(len(c.OutUnits)), uintptr(len(c.Herr)))
	runtime.KeepAlive(c)

	c.UnitCode = int(ucode)
	c.Ierr = int(ierr)
}

func (l *nativeLibrary) Unload() error {
	if l.dll == nil {
		return nil
	}
	err := l.dll.Release()
	l.dll = nil
	return err
}
