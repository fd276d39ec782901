package refprop

import "strings"

// Buffer is a fixed-capacity, NUL-terminated character buffer as the engine
// expects it. Its length is the capacity passed alongside it.
type Buffer []byte

// NewBuffer returns a zeroed buffer of the given capacity holding s.
// s is truncated to size-1 bytes so the buffer stays NUL-terminated.
func NewBuffer(size int, s string) Buffer {
	b := make(Buffer, size)
	if size == 0 {
		return b
	}
	if len(s) > size-1 {
		s = s[:size-1]
	}
	copy(b, s)
	return b
}

// Fits reports whether s fits a buffer of the given capacity without
// losing bytes to the NUL terminator.
func Fits(size int, s string) bool {
	return len(s) <= size-1
}

// Blank returns the single-space placeholder buffer. Sent as the fluid
// descriptor, it tells the engine to keep the fluid it already has loaded.
func Blank(size int) Buffer {
	return NewBuffer(size, " ")
}

// FluidBuffer sizes the fluid buffer for desc: the standard capacity when it
// fits, the long variant otherwise.
func FluidBuffer(desc string) Buffer {
	if len(desc) < StringLen {
		return NewBuffer(StringLen, desc)
	}
	return NewBuffer(FluidLen, desc)
}

// String returns the content up to the first NUL with trailing blanks trimmed.
func (b Buffer) String() string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return strings.TrimRight(string(b[:n]), " ")
}

// Set overwrites the buffer content with s, truncating as NewBuffer does.
func (b Buffer) Set(s string) {
	for i := range b {
		b[i] = 0
	}
	if len(b) == 0 {
		return
	}
	if len(s) > len(b)-1 {
		s = s[:len(b)-1]
	}
	copy(b, s)
}
