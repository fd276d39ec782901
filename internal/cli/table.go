package cli

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/roach88/propgrid/internal/grid"
)

// gridOutput is the printable form of one evaluated grid.
type gridOutput struct {
	RunID    string    `json:"run_id,omitempty"`
	Name     string    `json:"name,omitempty"`
	Property string    `json:"property"`
	Inputs   string    `json:"inputs"`
	Fluid    string    `json:"fluid"`
	Values1  []float64 `json:"values1"`
	Values2  []float64 `json:"values2"`
	Rows     int       `json:"rows"`
	Cols     int       `json:"cols"`
	Data     []float64 `json:"data"`
	Units    string    `json:"units,omitempty"`
}

func newGridOutput(name, runID string, req grid.Request, res *grid.Result) gridOutput {
	return gridOutput{
		RunID:    runID,
		Name:     name,
		Property: req.Property,
		Inputs:   req.Inputs,
		Fluid:    req.Fluid,
		Values1:  req.Values1,
		Values2:  req.Values2,
		Rows:     res.Rows,
		Cols:     res.Cols,
		Data:     res.Data,
		Units:    res.Units,
	}
}

// String renders the grid as a table: one row per values1 entry, one
// column per values2 entry.
func (g gridOutput) String() string {
	var buf bytes.Buffer

	title := g.Property
	if g.Name != "" {
		title = g.Name + ": " + title
	}
	if g.Units != "" {
		title += " [" + g.Units + "]"
	}
	fmt.Fprintf(&buf, "%s  %s  %s  (%dx%d)\n", title, g.Inputs, g.Fluid, g.Rows, g.Cols)
	if g.RunID != "" {
		fmt.Fprintf(&buf, "run %s\n", g.RunID)
	}

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "\t")
	for _, v := range g.Values2 {
		fmt.Fprintf(tw, "%s\t", formatFloat(v))
	}
	fmt.Fprintln(tw)
	for r := 0; r < g.Rows; r++ {
		fmt.Fprintf(tw, "%s\t", formatFloat(g.Values1[r]))
		for c := 0; c < g.Cols; c++ {
			fmt.Fprintf(tw, "%s\t", formatFloat(g.Data[r+c*g.Rows]))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
