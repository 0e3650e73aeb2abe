package geom

// EdgeType selects how a parametric line solution is clamped: a Segment
// accepts t in [0,1], a Ray accepts t >= 0, a Line accepts any t.
//
// The set of edge types is closed; the only values are Segment, Ray and Line.
type EdgeType interface {
	accepts(t float64) bool
	String() string
}

type segmentType struct{}
type rayType struct{}
type lineType struct{}

func (segmentType) accepts(t float64) bool { return t >= 0 && t <= 1 }
func (rayType) accepts(t float64) bool     { return t >= 0 }
func (lineType) accepts(t float64) bool    { return true }

func (segmentType) String() string { return "segment" }
func (rayType) String() string     { return "ray" }
func (lineType) String() string    { return "line" }

var (
	Segment EdgeType = segmentType{}
	Ray     EdgeType = rayType{}
	Line    EdgeType = lineType{}
)

// Accepts reports whether the parametric value t lies on an edge of type et.
func Accepts(et EdgeType, t float64) bool {
	return et.accepts(t)
}
