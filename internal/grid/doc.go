// Package grid evaluates one thermodynamic property over a grid of state
// points by driving the property engine cell by cell.
//
// ARCHITECTURE:
//
// Session:
// Every Evaluate call opens one engine session and closes it on every exit
// path. Opening loads the module and registers the install path; closing
// unloads it. The engine keeps its state process-wide, so sessions are
// serialized by a package-level lock: concurrent Evaluate calls run one
// after another.
//
// Fluid residency:
// A session starts in the fluidPending phase and sends the full fluid
// descriptor with the first evaluation. Once that evaluation succeeds the
// session moves to fluidResident and every later evaluation sends the blank
// placeholder instead, telling the engine to reuse what it already loaded.
//
// Evaluation order:
//  1. warm-up cell (0,0)
//  2. the rest of row 0
//  3. rows 1..M-1, each left to right
//
// Results are stored column-major at index r + c*M. The first failing cell
// aborts the whole grid; no partial result is ever returned.
//
// Debug trace:
// With Request.Debug set, every evaluated cell writes a block to the trace
// writer (stdout unless WithTrace says otherwise), followed by per-component
// phase compositions for mixtures and a closing rule after the last cell.
package grid
