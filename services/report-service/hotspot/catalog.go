// Package hotspot aggregates pollution reports against fixed ecological
// regions and classifies regions as hot when their report count reaches a
// configurable threshold.
package hotspot

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
)

//go:embed hotspots.json
var hotspotsJSON []byte

// ErrEmptyCatalog means there are no regions to classify against. This is
// a deployment configuration error, not a per-request one.
var ErrEmptyCatalog = errors.New("region catalog is empty")

// Region is a named ecological area. Geometry is immutable after load;
// aggregation never writes into it.
type Region struct {
	Name        string
	Description string
	Priority    string
	Polygons    []Polygon
}

// GeoJSON envelope types.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
	Geometry   Geometry          `json:"geometry"`
}

type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Catalog holds the fixed region set, loaded once at process start.
type Catalog struct {
	regions []Region
}

// LoadCatalog parses the embedded region data.
func LoadCatalog() (*Catalog, error) {
	regions, err := ParseFeatureCollection(hotspotsJSON)
	if err != nil {
		return nil, err
	}
	return &Catalog{regions: regions}, nil
}

// Regions returns the region set. Callers must treat it as read-only.
func (c *Catalog) Regions() []Region {
	return c.regions
}

// ParseFeatureCollection converts GeoJSON features into regions. GeoJSON
// coordinate pairs are [longitude, latitude].
func ParseFeatureCollection(data []byte) ([]Region, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse region data: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, ErrEmptyCatalog
	}

	regions := make([]Region, 0, len(fc.Features))
	for i, f := range fc.Features {
		name := f.Properties["name"]
		if name == "" {
			name = fmt.Sprintf("Unknown Region %d", i)
		}

		polygons, err := parseGeometry(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", name, err)
		}

		regions = append(regions, Region{
			Name:        name,
			Description: f.Properties["description"],
			Priority:    f.Properties["priority"],
			Polygons:    polygons,
		})
	}
	return regions, nil
}

func parseGeometry(g Geometry) ([]Polygon, error) {
	switch g.Type {
	case "Polygon":
		var raw [][][2]float64
		if err := json.Unmarshal(g.Coordinates, &raw); err != nil {
			return nil, fmt.Errorf("bad polygon coordinates: %w", err)
		}
		return []Polygon{toPolygon(raw)}, nil
	case "MultiPolygon":
		var raw [][][][2]float64
		if err := json.Unmarshal(g.Coordinates, &raw); err != nil {
			return nil, fmt.Errorf("bad multipolygon coordinates: %w", err)
		}
		polys := make([]Polygon, 0, len(raw))
		for _, p := range raw {
			polys = append(polys, toPolygon(p))
		}
		return polys, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

func toPolygon(raw [][][2]float64) Polygon {
	poly := make(Polygon, 0, len(raw))
	for _, rawRing := range raw {
		ring := make(Ring, 0, len(rawRing))
		for _, pair := range rawRing {
			ring = append(ring, Coordinate{Lng: pair[0], Lat: pair[1]})
		}
		poly = append(poly, ring)
	}
	return poly
}
