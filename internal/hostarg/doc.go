// Package hostarg models the argument values a numerical host environment
// passes across its native-call boundary.
//
// The host hands over loosely typed arrays; the property grid call checks
// their class (char, double, logical) before using them. Value is sealed so
// every argument is one of the known classes:
//
//   - Char: character array
//   - Double: real double matrix, column-major, scalars are 1×1
//   - Logical: logical scalar
//
// DecodeJSON turns a JSON argument list into Values for transports that do
// not speak the host's native representation (the CLI and the websocket
// server).
package hostarg
