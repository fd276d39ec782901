package job

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/propgrid/internal/grid"
	"github.com/roach88/propgrid/internal/refprop"
)

//go:embed schema.cue
var schemaCUE string

// Job is a parsed batch file.
type Job struct {
	Name     string   `json:"name,omitempty"`
	Engine   Engine   `json:"engine"`
	Defaults Defaults `json:"defaults"`
	Requests []Spec   `json:"requests"`
}

// Engine names the engine installation for every request of a job.
type Engine struct {
	Path    string `json:"path,omitempty"`
	Library string `json:"library,omitempty"`
	Units   string `json:"units,omitempty"`
}

// Defaults fill request fields left unset.
type Defaults struct {
	Fluid       string    `json:"fluid,omitempty"`
	Basis       string    `json:"basis,omitempty"`
	Composition []float64 `json:"composition,omitempty"`
	Units       string    `json:"units,omitempty"`
}

// Spec is one request as written in the file.
type Spec struct {
	Name        string    `json:"name,omitempty"`
	Property    string    `json:"property"`
	Inputs      string    `json:"inputs"`
	Values1     Axis      `json:"values1"`
	Values2     Axis      `json:"values2"`
	Fluid       string    `json:"fluid,omitempty"`
	Basis       string    `json:"basis,omitempty"`
	Composition []float64 `json:"composition,omitempty"`
	Units       string    `json:"units,omitempty"`
	EnginePath  string    `json:"engine_path,omitempty"`
	Debug       bool      `json:"debug,omitempty"`
}

// Fallback supplies settings a job leaves unset, typically from the
// configuration file.
type Fallback struct {
	EnginePath string
	Units      string
}

// Item is one resolved request of a job.
type Item struct {
	Name    string
	Request grid.Request
}

// Load reads and validates the job file at path.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data, path)
	case ".cue":
		return ParseCUE(data, path)
	default:
		return nil, fmt.Errorf("job %s: unsupported extension %q (want .yaml, .yml or .cue)", path, filepath.Ext(path))
	}
}

// ParseYAML parses YAML job content. name is used in error messages.
func ParseYAML(data []byte, name string) (*Job, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("job %s: %w", name, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("job %s: empty document", name)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", name, err)
	}

	ctx := cuecontext.New()
	return validate(ctx, ctx.CompileBytes(asJSON, cue.Filename(name)), name)
}

// ParseCUE parses CUE job content. name is used in error messages.
func ParseCUE(data []byte, name string) (*Job, error) {
	ctx := cuecontext.New()
	return validate(ctx, ctx.CompileBytes(data, cue.Filename(name)), name)
}

// validate unifies v with #Job and decodes the result.
func validate(ctx *cue.Context, v cue.Value, name string) (*Job, error) {
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("job %s: %s", name, errors.Details(err, nil))
	}

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("job schema: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Job")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("job %s: %s", name, strings.TrimSpace(errors.Details(err, nil)))
	}

	data, err := unified.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", name, err)
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("job %s: %w", name, err)
	}
	return &job, nil
}

// Resolve resolves every request of the job into a grid request.
func (j *Job) Resolve(fb Fallback) ([]Item, error) {
	items := make([]Item, 0, len(j.Requests))
	for i, spec := range j.Requests {
		req, err := j.resolve(spec, fb)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i+1, err)
		}
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("request-%d", i+1)
		}
		items = append(items, Item{Name: name, Request: req})
	}
	return items, nil
}

func (j *Job) resolve(spec Spec, fb Fallback) (grid.Request, error) {
	fluid := first(spec.Fluid, j.Defaults.Fluid)
	if fluid == "" {
		return grid.Request{}, fmt.Errorf("fluid is required")
	}

	basis, err := parseBasis(first(spec.Basis, j.Defaults.Basis))
	if err != nil {
		return grid.Request{}, err
	}

	z := spec.Composition
	if len(z) == 0 {
		z = j.Defaults.Composition
	}
	if len(z) == 0 {
		z = []float64{1.0}
	}
	if len(z) > refprop.MaxComponents {
		return grid.Request{}, fmt.Errorf("composition has %d entries, at most %d are supported", len(z), refprop.MaxComponents)
	}

	return grid.Request{
		Property:    spec.Property,
		Inputs:      spec.Inputs,
		Values1:     []float64(spec.Values1),
		Values2:     []float64(spec.Values2),
		Fluid:       fluid,
		Basis:       basis,
		Composition: refprop.NewComposition(z),
		Units:       first(spec.Units, j.Defaults.Units, j.Engine.Units, fb.Units),
		EnginePath:  first(spec.EnginePath, j.Engine.Path, fb.EnginePath),
		Debug:       spec.Debug,
	}, nil
}

func parseBasis(s string) (grid.Basis, error) {
	switch s {
	case "", "molar":
		return grid.Molar, nil
	case "mass":
		return grid.Mass, nil
	default:
		return 0, fmt.Errorf("basis %q is invalid, want molar or mass", s)
	}
}

// first returns the first non-empty string.
func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
