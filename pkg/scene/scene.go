package scene

import (
	"fmt"
	"sort"

	"github.com/chazu/facet/pkg/geom"
	"github.com/samber/lo"
)

// Scene is the result of one evaluation: named shapes in definition order
// and the log of queries run against them.
type Scene struct {
	Shapes  map[string]Shape `json:"-"`
	Order   []string         `json:"order"`
	Queries []QueryRecord    `json:"queries"`
	Version uint64           `json:"version"`
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{Shapes: make(map[string]Shape)}
}

// Define registers shape under name. Names are unique within a scene.
func (s *Scene) Define(name string, shape Shape) error {
	if name == "" {
		return fmt.Errorf("define: empty name")
	}
	if shape == nil {
		return fmt.Errorf("define %q: nil shape", name)
	}
	if _, exists := s.Shapes[name]; exists {
		return fmt.Errorf("define %q: name already defined", name)
	}
	s.Shapes[name] = shape
	s.Order = append(s.Order, name)
	return nil
}

// Lookup returns the shape with the given name, or nil.
func (s *Scene) Lookup(name string) Shape {
	return s.Shapes[name]
}

// MustLookup returns the shape with the given name, or panics.
func (s *Scene) MustLookup(name string) Shape {
	shape, ok := s.Shapes[name]
	if !ok {
		panic(fmt.Sprintf("scene: no shape named %q", name))
	}
	return shape
}

// Names returns shape names in definition order.
func (s *Scene) Names() []string {
	return append([]string(nil), s.Order...)
}

// ByKind returns the names of shapes of the given kind, in definition order.
func (s *Scene) ByKind(kind ShapeKind) []string {
	return lo.Filter(s.Order, func(name string, _ int) bool {
		shape, ok := s.Shapes[name]
		return ok && shape != nil && shape.Kind() == kind
	})
}

// Solids returns the named solids in definition order.
func (s *Scene) Solids() map[string]*SolidShape {
	out := make(map[string]*SolidShape)
	for _, name := range s.ByKind(KindSolid) {
		out[name] = s.Shapes[name].(*SolidShape)
	}
	return out
}

// Record appends a query result to the log.
func (s *Scene) Record(q QueryRecord) {
	s.Queries = append(s.Queries, q)
}

// ---------------------------------------------------------------------------
// Query log
// ---------------------------------------------------------------------------

// QueryRecord is one query run during evaluation. OK mirrors the query's own
// success flag; a query that failed on bad arguments carries Err instead.
type QueryRecord struct {
	Op      string      `json:"op"`
	Shapes  []string    `json:"shapes,omitempty"` // names of defined shapes the query used
	Points  []geom.Vec3 `json:"points,omitempty"`
	Scalars []float64   `json:"scalars,omitempty"`
	OK      bool        `json:"ok"`
	Err     string      `json:"err,omitempty"`
}

func (q QueryRecord) String() string {
	switch {
	case q.Err != "":
		return fmt.Sprintf("%s: error: %s", q.Op, q.Err)
	case !q.OK:
		return fmt.Sprintf("%s: no result", q.Op)
	default:
		return fmt.Sprintf("%s: %v %v", q.Op, q.Points, q.Scalars)
	}
}

// Failed returns the queries that came back without an answer, in order.
func (s *Scene) Failed() []QueryRecord {
	return lo.Filter(s.Queries, func(q QueryRecord, _ int) bool { return !q.OK })
}

// Summary counts shapes by kind, keyed by the kind name.
func (s *Scene) Summary() []string {
	defined := lo.Filter(s.Order, func(name string, _ int) bool { return s.Shapes[name] != nil })
	groups := lo.GroupBy(defined, func(name string) string {
		return s.Shapes[name].Kind().String()
	})
	out := make([]string, 0, len(groups))
	for kind, names := range groups {
		out = append(out, fmt.Sprintf("%s=%d", kind, len(names)))
	}
	sort.Strings(out)
	return out
}
