package hotspot

import "math"

// Coordinate is a WGS84 point. GeoJSON orders pairs [longitude, latitude];
// parsing converts into this struct so the rest of the code never guesses.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Ring is a closed loop of coordinates. The closing point may be omitted;
// edge iteration wraps around.
type Ring []Coordinate

// Polygon is one outer ring followed by zero or more hole rings.
type Polygon []Ring

// normalize drops a duplicated closing point so edge iteration can wrap.
func (r Ring) normalize() Ring {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}

// valid reports whether the ring has at least 3 distinct vertices.
func (r Ring) valid() bool {
	n := r.normalize()
	distinct := make(map[Coordinate]bool, len(n))
	for _, c := range n {
		distinct[c] = true
	}
	return len(distinct) >= 3
}

const boundaryEps = 1e-12

// onSegment reports whether p lies on the segment a-b.
func onSegment(p, a, b Coordinate) bool {
	cross := (b.Lng-a.Lng)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lng-a.Lng)
	if math.Abs(cross) > boundaryEps {
		return false
	}
	return p.Lng >= math.Min(a.Lng, b.Lng)-boundaryEps &&
		p.Lng <= math.Max(a.Lng, b.Lng)+boundaryEps &&
		p.Lat >= math.Min(a.Lat, b.Lat)-boundaryEps &&
		p.Lat <= math.Max(a.Lat, b.Lat)+boundaryEps
}

// pointInRing runs a ray cast against the ring's edges. Points exactly on
// an edge or vertex count as inside; the convention is deterministic and
// applied everywhere membership is tested.
func pointInRing(p Coordinate, ring Ring) bool {
	ring = ring.normalize()
	n := len(ring)
	if n < 3 {
		return false
	}

	for i := 0; i < n; i++ {
		if onSegment(p, ring[i], ring[(i+1)%n]) {
			return true
		}
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			x := (b.Lng-a.Lng)*(p.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lng
			if p.Lng < x {
				inside = !inside
			}
		}
	}
	return inside
}

// PointInPolygon tests membership in the outer ring minus any holes.
func PointInPolygon(p Coordinate, poly Polygon) bool {
	if len(poly) == 0 || !poly[0].valid() {
		return false
	}
	if !pointInRing(p, poly[0]) {
		return false
	}
	for _, hole := range poly[1:] {
		if !hole.valid() {
			continue
		}
		if pointInRing(p, hole) {
			return false
		}
	}
	return true
}

// PointInAnyPolygon treats a multi-polygon as the union of its members:
// a point belongs if any member polygon contains it. Equivalent to a true
// geometric union for membership testing, without computing one.
func PointInAnyPolygon(p Coordinate, polys []Polygon) bool {
	for _, poly := range polys {
		if PointInPolygon(p, poly) {
			return true
		}
	}
	return false
}
