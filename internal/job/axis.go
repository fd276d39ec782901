package job

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Axis is the list of values along one grid dimension. In a file it is an
// explicit list or a Range.
type Axis []float64

// Range describes count values from Start to Stop inclusive.
type Range struct {
	Start float64 `json:"start"`
	Stop  float64 `json:"stop"`
	Count int     `json:"count"`
}

// Values expands r linearly. A single-value range yields Start.
func (r Range) Values() []float64 {
	if r.Count <= 0 {
		return nil
	}
	if r.Count == 1 {
		return []float64{r.Start}
	}
	out := make([]float64, r.Count)
	step := (r.Stop - r.Start) / float64(r.Count-1)
	for i := range out {
		out[i] = r.Start + float64(i)*step
	}
	out[r.Count-1] = r.Stop
	return out
}

// UnmarshalJSON accepts a number list or a range object.
func (a *Axis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var r Range
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("axis range: %w", err)
		}
		if r.Count < 1 {
			return fmt.Errorf("axis range count must be at least 1, got %d", r.Count)
		}
		*a = r.Values()
		return nil
	}

	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("axis: %w", err)
	}
	*a = values
	return nil
}
