package topology

import (
	"math"

	"github.com/chazu/facet/pkg/geom"
)

// FaceSphereIntersection is the part of a face's boundary that lies inside
// the circle where the face's plane cuts a sphere.
type FaceSphereIntersection struct {
	Center   geom.Vec3
	Radius   float64
	Segments [][2]geom.Vec3
}

// GetIntersectionFaceSphere cuts the face's plane with the sphere and clips
// each boundary edge against the resulting circle. Edges fully inside are
// kept whole, edges with one endpoint inside are cut at the single crossing.
// An edge with both endpoints outside still contributes its chord when it
// passes through the circle. Open faces are closed off at rayLength.
//
// ok is false when the plane misses the sphere.
func GetIntersectionFaceSphere(face *Face3D, sphere geom.Sphere, rayLength float64) (res FaceSphereIntersection, ok bool, err error) {
	center, radius, hit := geom.GetIntersectionPlaneSphere(face.GetPlane(), sphere)
	if !hit {
		return FaceSphereIntersection{}, false, nil
	}
	res.Center, res.Radius = center, radius

	poly, err := face.GetPolygon(rayLength)
	if err != nil {
		return FaceSphereIntersection{}, false, err
	}
	basis := geom.NewPlaneBasis(face.GetPlane(), center)
	c := basis.To2D(center)

	n := len(poly)
	last := n
	if !face.IsClosed() {
		// the synthetic far points are not joined to each other
		last = n - 1
	}
	for i := 0; i < last; i++ {
		a, b := poly[i], poly[(i+1)%n]
		t0, t1, crosses := segmentCirclePercents(basis.To2D(a), basis.To2D(b), c, radius)
		if !crosses {
			continue
		}
		res.Segments = append(res.Segments, [2]geom.Vec3{a.Lerp(b, t0), a.Lerp(b, t1)})
	}
	return res, true, nil
}

// segmentCirclePercents returns the parameter range [t0,t1] within [0,1] of
// the segment a-b that lies inside the circle. A tangent touch does not count.
func segmentCirclePercents(a, b, c geom.Vec2, r float64) (t0, t1 float64, ok bool) {
	ab := b.Sub(a)
	ac := a.Sub(c)
	qa := ab.Dot(ab)
	if geom.IsNearZero(qa) {
		return 0, 0, false
	}
	qb := ab.Dot(ac)
	qc := ac.Dot(ac) - r*r

	disc := qb*qb - qa*qc
	if disc <= 0 {
		return 0, 0, false
	}
	s := math.Sqrt(disc)
	t0 = math.Max(0, (-qb-s)/qa)
	t1 = math.Min(1, (-qb+s)/qa)
	if t1-t0 <= geom.Epsilon {
		return 0, 0, false
	}
	return t0, t1, true
}
