package hotspot

import (
	"ecowatch-reporting-system/services/report-service/models"
)

const (
	// HotColor marks regions whose report count reached the threshold.
	HotColor = "#A50026"
	// defaultBaseColor is assigned to regions without a dedicated color.
	defaultBaseColor = "#90EE90"
)

// baseColors is a stable per-region color assignment keyed by region name.
// The same name always maps to the same color across classification runs.
var baseColors = map[string]string{
	"The Himalayas":                         "#008000",
	"Western Ghats":                         "#FFFF00",
	"Indo-Burma Region (Indian Part)":       "#FF0000",
	"Sundaland (Andaman & Nicobar Islands)": "#C71585",
}

func baseColorFor(name string) string {
	if c, ok := baseColors[name]; ok {
		return c
	}
	return defaultBaseColor
}

// RegionView is the per-region aggregation result handed to the
// presentation layer. It is a fresh overlay; the shared catalog is never
// mutated.
type RegionView struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Priority      string `json:"priority"`
	ReportCount   int    `json:"report_count"`
	PendingCount  int    `json:"pending_count"`
	ApprovedCount int    `json:"approved_count"`
	ResolvedCount int    `json:"resolved_count"`
	RejectedCount int    `json:"rejected_count"`
	Hot           bool   `json:"hot"`
	Color         string `json:"color"`
}

// Diagnostic flags an input skipped during classification.
type Diagnostic struct {
	Kind    string `json:"kind"` // malformed_coordinate | degenerate_geometry
	Subject string `json:"subject"`
	Detail  string `json:"detail"`
}

// Result bundles the region views with diagnostics for skipped inputs.
type Result struct {
	Views       []RegionView `json:"views"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Classify counts, per region, the reports whose location falls inside the
// region's geometry (union of member polygons, boundary points inclusive)
// and flags regions with count >= threshold as hot.
//
// Reports with malformed coordinates and regions with degenerate geometry
// are skipped and reported via diagnostics; they never abort the run. The
// only error condition is an empty region set.
func Classify(regions []Region, reports []models.Report, threshold int) (*Result, error) {
	if len(regions) == 0 {
		return nil, ErrEmptyCatalog
	}

	result := &Result{Views: make([]RegionView, 0, len(regions))}

	// Validate coordinates once, outside the per-region loop.
	usable := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if err := models.ValidateCoordinates(r.Latitude, r.Longitude); err != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind:    "malformed_coordinate",
				Subject: r.ID.Hex(),
				Detail:  err.Error(),
			})
			continue
		}
		usable = append(usable, r)
	}

	for _, region := range regions {
		view := RegionView{
			Name:        region.Name,
			Description: region.Description,
			Priority:    region.Priority,
		}

		if degenerate(region) {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind:    "degenerate_geometry",
				Subject: region.Name,
				Detail:  "region has no usable polygon ring",
			})
			view.Color = baseColorFor(region.Name)
			result.Views = append(result.Views, view)
			continue
		}

		for _, r := range usable {
			p := Coordinate{Lat: r.Latitude, Lng: r.Longitude}
			if !PointInAnyPolygon(p, region.Polygons) {
				continue
			}
			view.ReportCount++
			switch r.Status {
			case models.StatusPending:
				view.PendingCount++
			case models.StatusApproved:
				view.ApprovedCount++
			case models.StatusResolved:
				view.ResolvedCount++
			case models.StatusRejected:
				view.RejectedCount++
			}
		}

		view.Hot = view.ReportCount >= threshold
		if view.Hot {
			view.Color = HotColor
		} else {
			view.Color = baseColorFor(region.Name)
		}
		result.Views = append(result.Views, view)
	}

	return result, nil
}

// degenerate reports whether no polygon of the region can contain a point.
func degenerate(region Region) bool {
	for _, poly := range region.Polygons {
		if len(poly) > 0 && poly[0].valid() {
			return false
		}
	}
	return true
}
