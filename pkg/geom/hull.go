package geom

import (
	"math"
	"runtime"
	"sync"
)

// GetIntersectionsHullRay casts the ray origin + t*dir (t >= 0) against every
// triangle of hull and returns the hits ordered by distance from origin. Hulls
// larger than opts.ParallelThreshold are split across goroutines; the result
// order is the same either way.
func GetIntersectionsHullRay(hull []TriangleView, origin, dir Vec3, opts Options) []HullHit {
	if dir.IsNearZero() || len(hull) == 0 {
		return nil
	}
	opts = opts.withDefaults()
	d := dir.Normalize()

	var hits []HullHit
	if len(hull) <= opts.ParallelThreshold {
		hits = castRange(hull, origin, d)
	} else {
		hits = castParallel(hull, origin, d)
	}
	sortHits(hits)
	return hits
}

func castRange(tris []TriangleView, origin, d Vec3) []HullHit {
	var hits []HullHit
	for _, tri := range tris {
		p, ok := GetIntersectionTriangleLine(tri, origin, d, Ray)
		if !ok {
			continue
		}
		hits = append(hits, HullHit{Point: p, Distance: p.Distance(origin), Triangle: tri})
	}
	return hits
}

func castParallel(hull []TriangleView, origin, d Vec3) []HullHit {
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(hull) + workers - 1) / workers
	results := make([][]HullHit, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(hull) {
			break
		}
		hi := lo + chunk
		if hi > len(hull) {
			hi = len(hull)
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			results[w] = castRange(hull[lo:hi], origin, d)
		}(w, lo, hi)
	}
	wg.Wait()

	var hits []HullHit
	for _, r := range results {
		hits = append(hits, r...)
	}
	return hits
}

// IsInsideConvexHull reports whether point is inside or on a convex hull whose
// triangle normals all point outward.
func IsInsideConvexHull(hull []TriangleView, point Vec3) bool {
	if len(hull) == 0 {
		return false
	}
	for _, tri := range hull {
		plane := tri.Plane()
		tol := math.Max(1, math.Abs(plane.D)+point.Length()) * 1e-9
		if plane.DistanceFromPlane(point) > tol {
			return false
		}
	}
	return true
}

// IsInsideConcaveHull casts a ray in a random direction and reports whether it
// crosses the hull an odd number of times. The direction changes per call so
// that no fixed direction keeps grazing the same edge. Crossings at the same
// distance (a shared edge) count once.
func IsInsideConcaveHull(hull []TriangleView, point Vec3, opts Options) bool {
	hits := GetIntersectionsHullRay(hull, point, RandomUnitVector(), opts)
	count := 0
	last := math.Inf(-1)
	for _, h := range hits {
		if IsNearValueEps(h.Distance, last, math.Max(1, h.Distance)*1e-9) {
			continue
		}
		last = h.Distance
		count++
	}
	return count%2 == 1
}
