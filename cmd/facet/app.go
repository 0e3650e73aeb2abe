package main

import (
	"log"

	"github.com/samber/lo"

	"github.com/chazu/facet/pkg/engine"
	"github.com/chazu/facet/pkg/geom"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/scene"
	"github.com/chazu/facet/pkg/tessellate"
)

// App runs facet scripts and collects everything they produced into a
// JSON-serializable report.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON-serializable mesh of one solid.
type MeshData struct {
	Name      string    `json:"name"`
	Vertices  []float32 `json:"vertices"`
	Normals   []float32 `json:"normals"`
	Indices   []uint32  `json:"indices"`
	Triangles int       `json:"triangles"`
	Skipped   int       `json:"skipped"`
}

// QueryData is the JSON-serializable result of one query.
type QueryData struct {
	Op      string       `json:"op"`
	Shapes  []string     `json:"shapes,omitempty"`
	OK      bool         `json:"ok"`
	Points  [][3]float64 `json:"points,omitempty"`
	Scalars []float64    `json:"scalars,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Shape   string `json:"shape,omitempty"`
	Message string `json:"message"`
}

// Report is the full result of running a script.
type Report struct {
	Shapes   []string        `json:"shapes"`
	Summary  []string        `json:"summary"`
	Meshes   []MeshData      `json:"meshes"`
	Queries  []QueryData     `json:"queries"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App from a config. A nil config uses the defaults.
func NewApp(conf *Config) (*App, error) {
	if conf == nil {
		conf = DefaultConfig()
	}
	k, err := conf.NewKernel()
	if err != nil {
		return nil, err
	}
	return &App{
		engine: engine.NewEngine(conf.EngineOptions(k)...),
		kernel: k,
	}, nil
}

// Evaluate runs source and, when meshes is set, tessellates every solid the
// script defined.
func (a *App) Evaluate(source string, meshes bool) Report {
	report := Report{
		Shapes:   []string{},
		Summary:  []string{},
		Meshes:   []MeshData{},
		Queries:  []QueryData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate and validate the script.
	res, err := a.engine.Run(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		report.Errors = append(report.Errors, EvalErrorData{Message: err.Error()})
		return report
	}

	// Step 2: Convert eval errors and warnings.
	for _, e := range res.Errors {
		report.Errors = append(report.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
	}
	for _, w := range res.Warnings {
		report.Warnings = append(report.Warnings, EvalErrorData{Shape: w.Shape, Message: w.Message})
	}
	if res.Scene == nil || len(res.Errors) > 0 {
		return report
	}
	s := res.Scene
	report.Shapes = s.Names()
	report.Summary = s.Summary()
	report.Queries = lo.Map(s.Queries, func(q scene.QueryRecord, _ int) QueryData { return queryData(q) })

	if !meshes {
		return report
	}

	// Step 3: Tessellate the solids into triangle meshes.
	hulls, err := tessellate.Tessellate(s, a.kernel, geom.NewTokenSource())
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		report.Errors = append(report.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return report
	}
	for _, h := range hulls {
		report.Meshes = append(report.Meshes, MeshData{
			Name:      h.Name,
			Vertices:  h.Mesh.Vertices,
			Normals:   h.Mesh.Normals,
			Indices:   h.Mesh.Indices,
			Triangles: len(h.Triangles),
			Skipped:   h.Skipped,
		})
	}

	return report
}

func queryData(q scene.QueryRecord) QueryData {
	return QueryData{
		Op:     q.Op,
		Shapes: q.Shapes,
		OK:     q.OK,
		Points: lo.Map(q.Points, func(p geom.Vec3, _ int) [3]float64 {
			return [3]float64{p.X, p.Y, p.Z}
		}),
		Scalars: q.Scalars,
		Error:   q.Err,
	}
}
