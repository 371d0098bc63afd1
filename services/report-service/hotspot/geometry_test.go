package hotspot

import "testing"

func square(minLat, minLng, maxLat, maxLng float64) Ring {
	return Ring{
		{Lat: minLat, Lng: minLng},
		{Lat: minLat, Lng: maxLng},
		{Lat: maxLat, Lng: maxLng},
		{Lat: maxLat, Lng: minLng},
	}
}

func TestPointInPolygon(t *testing.T) {
	poly := Polygon{square(0, 0, 10, 10)}

	tests := []struct {
		name string
		p    Coordinate
		want bool
	}{
		{"center", Coordinate{Lat: 5, Lng: 5}, true},
		{"outside", Coordinate{Lat: 15, Lng: 5}, false},
		{"far outside", Coordinate{Lat: -5, Lng: -5}, false},
		{"on edge", Coordinate{Lat: 0, Lng: 5}, true},
		{"on vertex", Coordinate{Lat: 10, Lng: 10}, true},
		{"just inside", Coordinate{Lat: 9.999, Lng: 9.999}, true},
		{"just outside", Coordinate{Lat: 10.001, Lng: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, poly); got != tt.want {
				t.Fatalf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointInPolygonWithHole(t *testing.T) {
	poly := Polygon{
		square(0, 0, 10, 10),
		square(4, 4, 6, 6), // hole
	}

	if PointInPolygon(Coordinate{Lat: 5, Lng: 5}, poly) {
		t.Fatal("point in hole should be outside")
	}
	if !PointInPolygon(Coordinate{Lat: 2, Lng: 2}, poly) {
		t.Fatal("point between outer ring and hole should be inside")
	}
}

func TestPointInPolygonClosedRing(t *testing.T) {
	// Explicitly closed ring (last point equals first) must behave the
	// same as an open one.
	closed := append(square(0, 0, 10, 10), Coordinate{Lat: 0, Lng: 0})
	poly := Polygon{closed}

	if !PointInPolygon(Coordinate{Lat: 5, Lng: 5}, poly) {
		t.Fatal("expected center inside closed ring")
	}
	if PointInPolygon(Coordinate{Lat: 11, Lng: 5}, poly) {
		t.Fatal("expected point outside closed ring")
	}
}

func TestPointInPolygonDegenerate(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
	}{
		{"empty polygon", Polygon{}},
		{"empty ring", Polygon{Ring{}}},
		{"single point", Polygon{Ring{{Lat: 1, Lng: 1}}}},
		{"two points", Polygon{Ring{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}}},
		{"repeated point", Polygon{Ring{{Lat: 1, Lng: 1}, {Lat: 1, Lng: 1}, {Lat: 1, Lng: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if PointInPolygon(Coordinate{Lat: 1, Lng: 1}, tt.poly) {
				t.Fatal("degenerate geometry must never contain a point")
			}
		})
	}
}

func TestPointInAnyPolygon(t *testing.T) {
	polys := []Polygon{
		{square(0, 0, 10, 10)},
		{square(20, 20, 30, 30)},
	}

	if !PointInAnyPolygon(Coordinate{Lat: 5, Lng: 5}, polys) {
		t.Fatal("expected membership via first polygon")
	}
	if !PointInAnyPolygon(Coordinate{Lat: 25, Lng: 25}, polys) {
		t.Fatal("expected membership via second polygon")
	}
	if PointInAnyPolygon(Coordinate{Lat: 15, Lng: 15}, polys) {
		t.Fatal("expected no membership between polygons")
	}
}
