//go:build cgo && (linux || darwin || freebsd)

package refprop

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

typedef int rp_len;

typedef void (*rp_setpath_fn)(char*, rp_len);
typedef void (*rp_setfluids_fn)(char*, int*, rp_len);
typedef void (*rp_setmixture_fn)(char*, double*, int*, rp_len);
typedef void (*rp_getenum_fn)(int*, char*, int*, int*, char*, rp_len, rp_len);
typedef void (*rp_refprop_fn)(char*, char*, char*, int*, int*, int*,
	double*, double*, double*, double*, char*, int*,
	double*, double*, double*, double*, int*, char*,
	rp_len, rp_len, rp_len, rp_len, rp_len);

static void rp_setpath(void* fn, char* path, rp_len n) {
	((rp_setpath_fn)fn)(path, n);
}

static void rp_setfluids(void* fn, char* fluids, int* ierr, rp_len n) {
	((rp_setfluids_fn)fn)(fluids, ierr, n);
}

static void rp_setmixture(void* fn, char* file, double* z, int* ierr, rp_len n) {
	((rp_setmixture_fn)fn)(file, z, ierr, n);
}

static void rp_getenum(void* fn, int* mode, char* s, int* e, int* ierr, char* herr,
	rp_len ns, rp_len nerr) {
	((rp_getenum_fn)fn)(mode, s, e, ierr, herr, ns, nerr);
}

static void rp_refprop(void* fn, char* fld, char* in, char* out, int* units, int* mass,
	int* mix, double* a, double* b, double* z, double* output, char* hunits, int* ucode,
	double* x, double* y, double* x3, double* q, int* ierr, char* herr,
	rp_len nfld, rp_len nin, rp_len nout, rp_len nunits, rp_len nerr) {
	((rp_refprop_fn)fn)(fld, in, out, units, mass, mix, a, b, z, output, hunits, ucode,
		x, y, x3, q, ierr, herr, nfld, nin, nout, nunits, nerr);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"path/filepath"
	"unsafe"
)

type nativeLibrary struct {
	handle     unsafe.Pointer
	setPath    unsafe.Pointer
	setFluids  unsafe.Pointer
	setMixture unsafe.Pointer
	getEnum    unsafe.Pointer
	refprop    unsafe.Pointer
}

// Load opens dir/name with dlopen and resolves the engine entry points.
func (NativeLoader) Load(dir, name string) (Library, error) {
	full := filepath.Join(dir, name)
	cpath := C.CString(full)
	defer C.free(unsafe.Pointer(cpath))

	h := C.dlopen(cpath, C.RTLD_NOW|C.RTLD_LOCAL)
	if h == nil {
		return nil, &LoadError{Dir: dir, Module: name, Err: errors.New(C.GoString(C.dlerror()))}
	}

	lib := &nativeLibrary{handle: h}
	entries := []struct {
		name string
		dst  *unsafe.Pointer
	}{
		{symSetPath, &lib.setPath},
		{symSetFluids, &lib.setFluids},
		{symSetMixture, &lib.setMixture},
		{symGetEnum, &lib.getEnum},
		{symRefprop, &lib.refprop},
	}
	for _, e := range entries {
		p := lookupSymbol(h, e.name)
		if p == nil {
			C.dlclose(h)
			return nil, &LoadError{Dir: dir, Module: name, Err: fmt.Errorf("missing entry point %s", e.name)}
		}
		*e.dst = p
	}
	return lib, nil
}

func lookupSymbol(h unsafe.Pointer, name string) unsafe.Pointer {
	for _, candidate := range symbolCandidates(name) {
		cname := C.CString(candidate)
		p := C.dlsym(h, cname)
		C.free(unsafe.Pointer(cname))
		if p != nil {
			return p
		}
	}
	return nil
}

func cchars(b Buffer) *C.char {
	return (*C.char)(unsafe.Pointer(&b[0]))
}

func cdoubles(z *Composition) *C.double {
	return (*C.double)(unsafe.Pointer(&z[0]))
}

func (l *nativeLibrary) SetPath(path Buffer) {
	C.rp_setpath(l.setPath, cchars(path), C.rp_len(len(path)))
}

func (l *nativeLibrary) SetFluids(fluids Buffer) int {
	var ierr C.int
	C.rp_setfluids(l.setFluids, cchars(fluids), &ierr, C.rp_len(len(fluids)))
	return int(ierr)
}

func (l *nativeLibrary) SetMixture(file Buffer, z *Composition) int {
	var ierr C.int
	C.rp_setmixture(l.setMixture, cchars(file), cdoubles(z), &ierr, C.rp_len(len(file)))
	return int(ierr)
}

func (l *nativeLibrary) GetEnum(mode int, s Buffer) (int, int, string) {
	cmode := C.int(mode)
	var enum, ierr C.int
	herr := NewBuffer(StringLen, "")
	C.rp_getenum(l.getEnum, &cmode, cchars(s), &enum, &ierr, cchars(herr),
		C.rp_len(len(s)), C.rp_len(len(herr)))
	return int(enum), int(ierr), herr.String()
}

func (l *nativeLibrary) Evaluate(c *Call) {
	units := C.int(c.Units)
	mass := C.int(c.Mass)
	mix := C.int(c.Mixture)
	a := C.double(c.A)
	b := C.double(c.B)
	q := C.double(c.Q)
	var ucode, ierr C.int

	C.rp_refprop(l.refprop,
		cchars(c.Fluid), cchars(c.In), cchars(c.Out),
		&units, &mass, &mix, &a, &b,
		cdoubles(&c.Z), (*C.double)(unsafe.Pointer(&c.Output[0])),
		cchars(c.OutUnits), &ucode,
		cdoubles(&c.X), cdoubles(&c.Y), cdoubles(&c.X3),
		&q, &ierr, cchars(c.Herr),
		C.rp_len(len(c.Fluid)), C.rp_len(len(c.In)), C.rp_len(len(c.Out)),
		C.rp_len(len(c.OutUnits)), C.rp_len(len(c.Herr)))

	c.UnitCode = int(ucode)
	c.Q = float64(q)
	c.Ierr = int(ierr)
}

func (l *nativeLibrary) Unload() error {
	if l.handle == nil {
		return nil
	}
	rc := C.dlclose(l.handle)
	l.handle = nil
	if rc != 0 {
		return fmt.Errorf("refprop: dlclose: %s", C.GoString(C.dlerror()))
	}
	return nil
}
