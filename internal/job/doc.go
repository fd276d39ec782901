// Package job loads batch files describing several property grid requests.
//
// A job file is YAML (.yaml, .yml) or CUE (.cue). Both are checked against
// the embedded #Job schema before use, so unknown keys, empty request lists
// and oversized compositions are rejected with the offending path.
//
//	name: water-table
//	engine:
//	  path: /opt/refprop
//	defaults:
//	  fluid: WATER
//	  units: SI
//	requests:
//	  - name: density
//	    property: D
//	    inputs: TP
//	    values1: {start: 300, stop: 400, count: 11}
//	    values2: [101325, 200000]
//
// An axis is either an explicit list or a {start, stop, count} range
// expanded linearly with both ends included.
//
// Settings resolve per request, first match wins: the request itself, the
// job's defaults, the job's engine section, then the caller's fallback.
package job
