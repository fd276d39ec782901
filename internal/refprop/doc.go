// Package refprop describes the calling contract of the external property
// engine and provides the native binding to its shared module.
//
// The engine is a closed-source library with a fixed binary entry-point
// contract. Every string crosses the boundary as a fixed-capacity,
// NUL-terminated buffer together with its capacity, and every array has a
// fixed length:
//
//   - 255 bytes for input codes, output codes, unit strings, paths and errors
//   - 10000 bytes for the long fluid descriptor variant
//   - 20 entries for compositions and phase compositions
//   - 200 entries for the output property array
//
// These capacities are dictated by the engine. They are not tunables.
//
// # Lifecycle
//
// A Loader produces a Library for one session. The Library must be unloaded
// exactly once; Unload is idempotent so callers can defer it.
//
// # Threading
//
// The engine keeps process-global state (the loaded fluid, path and unit
// tables). It is NOT safe for concurrent sessions. Callers must serialize
// sessions; package grid does this with a process-wide session lock.
//
// All cgo code lives in this package. No other package imports "C".
package refprop
