// Package app wires the beam pipeline together: parameter source -> engine
// or YAML reader -> generator -> tessellation.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chazu/precast/pkg/beam"
	"github.com/chazu/precast/pkg/config"
	"github.com/chazu/precast/pkg/engine"
	"github.com/chazu/precast/pkg/kernel"
	"github.com/chazu/precast/pkg/kernel/sdfx"
	"github.com/chazu/precast/pkg/params"
	"github.com/chazu/precast/pkg/tessellate"
)

// colorPalette maps the solid's colour index to a display colour.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the pipeline on one kernel.
type App struct {
	engine    *engine.Engine
	kernel    kernel.Kernel
	generator *beam.Generator
	log       zerolog.Logger
}

// MeshData is the JSON-serializable mesh format written by --mesh.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
	Volume   float64   `json:"volume"` // mm³
}

// EvalErrorData is a JSON-serializable pipeline error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
	Result   *beam.Result    `json:"-"`
}

// ScriptError reports the evaluation errors of a parameter script.
type ScriptError struct {
	Path   string
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	msg := e.Errors[0].Error()
	if len(e.Errors) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(e.Errors)-1)
	}
	if e.Path != "" {
		return e.Path + ": " + msg
	}
	return msg
}

// New creates an App on the sdfx kernel configured by cfg.
func New(cfg config.Config, log zerolog.Logger) *App {
	return NewWithKernel(sdfx.New(sdfx.WithMeshCells(cfg.MeshCells)), log,
		beam.WithProperties(cfg.Properties))
}

// NewWithKernel creates an App on k.
func NewWithKernel(k kernel.Kernel, log zerolog.Logger, opts ...beam.Option) *App {
	opts = append([]beam.Option{beam.WithLogger(log)}, opts...)
	return &App{
		engine:    engine.NewEngine(),
		kernel:    k,
		generator: beam.New(k, opts...),
		log:       log,
	}
}

// IsScript reports whether path names a Lisp parameter script.
func IsScript(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lisp", ".zy":
		return true
	}
	return false
}

// LoadParams reads a parameter file. Scripts are evaluated by the engine;
// any other file is read as YAML.
func (a *App) LoadParams(path string) (params.Set, error) {
	if !IsScript(path) {
		return params.LoadFile(path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	set, err := a.Script(string(src))
	if se, ok := err.(*ScriptError); ok {
		se.Path = path
	}
	return set, err
}

// Script evaluates a parameter script into a parameter set.
func (a *App) Script(source string) (params.Set, error) {
	set, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		return nil, &ScriptError{Errors: evalErrs}
	}
	a.log.Debug().Int("params", len(set)).Msg("script evaluated")
	return set, nil
}

// Generate builds the beam for set.
func (a *App) Generate(set params.Set) (*beam.Result, error) {
	return a.generator.Generate(set)
}

// Drag applies a handle drag and regenerates.
func (a *App) Drag(set params.Set, name string, delta float64) (params.Set, *beam.Result, error) {
	res, err := a.generator.Generate(set)
	if err != nil {
		return nil, nil, err
	}
	return a.generator.Regenerate(set, res, name, delta)
}

// Mesh tessellates the solids of res.
func (a *App) Mesh(res *beam.Result, opts ...tessellate.Option) ([]MeshData, error) {
	meshes, err := tessellate.Tessellate(res, a.kernel, opts...)
	if err != nil {
		return nil, err
	}
	out := []MeshData{}
	solids := res.Solids()
	for i, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    color(solids[i].Props.Color),
			Volume:   m.Volume(),
		})
	}
	return out, nil
}

func color(index int) string {
	if index < 1 {
		index = 1
	}
	return colorPalette[(index-1)%len(colorPalette)]
}

// Evaluate takes script source and returns mesh data, errors and warnings.
// An empty script yields an empty result.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a parameter set.
	set, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Error().Err(err).Msg("evaluate fatal error")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	if len(set) == 0 {
		return result
	}

	// Step 2: Generate the beam.
	res, err := a.generator.Generate(set)
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	result.Result = res
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w})
	}

	// Step 3: Tessellate the solids into triangle meshes.
	meshes, err := a.Mesh(res)
	if err != nil {
		a.log.Error().Err(err).Msg("tessellate error")
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	result.Meshes = meshes
	return result
}
