package hostarg

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is a sealed interface representing one host argument.
// Only Char, Double and Logical implement this.
type Value interface {
	hostValue() // Sealed - only these types implement it
}

// Char represents a character array.
type Char string

func (Char) hostValue() {}

// Double represents a real double matrix stored column-major.
// Scalars are 1×1; an empty matrix has Rows or Cols of zero.
type Double struct {
	Rows int
	Cols int
	Data []float64
}

func (Double) hostValue() {}

// Logical represents a logical scalar.
type Logical bool

func (Logical) hostValue() {}

// NewScalar creates a 1×1 Double.
func NewScalar(x float64) Double {
	return Double{Rows: 1, Cols: 1, Data: []float64{x}}
}

// NewRow creates a 1×N Double from values.
func NewRow(values ...float64) Double {
	data := make([]float64, len(values))
	copy(data, values)
	rows := 1
	if len(values) == 0 {
		rows = 0
	}
	return Double{Rows: rows, Cols: len(values), Data: data}
}

// NewMatrix creates an M×N Double over column-major data.
// Panics if len(data) != rows*cols.
func NewMatrix(rows, cols int, data []float64) Double {
	if len(data) != rows*cols {
		panic(fmt.Sprintf("hostarg: %d elements for a %dx%d matrix", len(data), rows, cols))
	}
	return Double{Rows: rows, Cols: cols, Data: data}
}

// Numel returns the number of elements.
func (d Double) Numel() int {
	return len(d.Data)
}

// Scalar returns the first element, or 0 for an empty matrix.
func (d Double) Scalar() float64 {
	if len(d.Data) == 0 {
		return 0
	}
	return d.Data[0]
}

// Vector returns a copy of the elements in storage order.
func (d Double) Vector() []float64 {
	out := make([]float64, len(d.Data))
	copy(out, d.Data)
	return out
}

// At returns element (r, c).
func (d Double) At(r, c int) float64 {
	return d.Data[r+c*d.Rows]
}

// MarshalJSON encodes the matrix with its shape.
func (d Double) MarshalJSON() ([]byte, error) {
	data := d.Data
	if data == nil {
		data = []float64{}
	}
	return json.Marshal(struct {
		Rows int       `json:"rows"`
		Cols int       `json:"cols"`
		Data []float64 `json:"data"`
	}{d.Rows, d.Cols, data})
}

// Class names the host class of v.
func Class(v Value) string {
	switch v.(type) {
	case Char:
		return "char"
	case Double:
		return "double"
	case Logical:
		return "logical"
	default:
		return "unknown"
	}
}

// DecodeJSON decodes a positional argument list.
//
//	string        -> Char
//	number        -> 1×1 Double
//	[]number      -> 1×N Double
//	bool          -> Logical
//	null          -> empty Double
func DecodeJSON(data []byte) ([]Value, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}

	values := make([]Value, len(raw))
	for i, r := range raw {
		v, err := decodeValue(r)
		if err != nil {
			return nil, fmt.Errorf("decode argument %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

func decodeValue(data json.RawMessage) (Value, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return Char(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return Logical(b), nil
	case 'n':
		return Double{}, nil
	case '[':
		var xs []float64
		if err := json.Unmarshal(data, &xs); err != nil {
			return nil, fmt.Errorf("arrays must hold numbers only: %w", err)
		}
		return NewRow(xs...), nil
	case '{':
		return nil, fmt.Errorf("objects are not host arguments")
	default:
		var x float64
		if err := json.Unmarshal(data, &x); err != nil {
			return nil, err
		}
		return NewScalar(x), nil
	}
}
