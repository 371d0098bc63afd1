package hotspot

import (
	"math"
	"reflect"
	"testing"

	"ecowatch-reporting-system/services/report-service/models"
)

func report(lat, lng float64, status models.Status) models.Report {
	return models.Report{Latitude: lat, Longitude: lng, Status: status}
}

func findView(t *testing.T, result *Result, name string) RegionView {
	t.Helper()
	for _, v := range result.Views {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("no view for region %q", name)
	return RegionView{}
}

func TestClassifyWesternGhatsScenario(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	// A and B lie inside the Western Ghats polygon, C outside every region.
	reports := []models.Report{
		report(15.0, 74.8, models.StatusApproved), // A
		report(12.0, 75.8, models.StatusPending),  // B
		report(20.0, 80.0, models.StatusRejected), // C
	}

	result, err := Classify(catalog.Regions(), reports, 2)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	wg := findView(t, result, "Western Ghats")
	if wg.ReportCount != 2 {
		t.Fatalf("report count = %d, want 2", wg.ReportCount)
	}
	if wg.ApprovedCount != 1 || wg.PendingCount != 1 || wg.ResolvedCount != 0 {
		t.Fatalf("status counts = approved %d, pending %d, resolved %d; want 1, 1, 0",
			wg.ApprovedCount, wg.PendingCount, wg.ResolvedCount)
	}
	if !wg.Hot {
		t.Fatal("count at threshold must be hot")
	}
	if wg.Color != HotColor {
		t.Fatalf("hot region color = %q, want %q", wg.Color, HotColor)
	}
}

func TestClassifyThresholdBoundary(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	inside := []models.Report{
		report(15.0, 74.8, models.StatusPending),
		report(12.0, 75.8, models.StatusPending),
	}

	// count == threshold -> hot
	result, err := Classify(catalog.Regions(), inside, 2)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !findView(t, result, "Western Ghats").Hot {
		t.Fatal("count == threshold must be hot")
	}

	// count == threshold-1 -> not hot
	result, err = Classify(catalog.Regions(), inside[:1], 2)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	wg := findView(t, result, "Western Ghats")
	if wg.Hot {
		t.Fatal("count == threshold-1 must not be hot")
	}
	if wg.Color != baseColors["Western Ghats"] {
		t.Fatalf("non-hot color = %q, want base color %q", wg.Color, baseColors["Western Ghats"])
	}
}

func TestClassifyEmptyReportSet(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	result, err := Classify(catalog.Regions(), nil, 1)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	for _, v := range result.Views {
		if v.Hot {
			t.Fatalf("region %q hot with no reports", v.Name)
		}
		if v.ReportCount != 0 || v.PendingCount != 0 || v.ApprovedCount != 0 || v.ResolvedCount != 0 {
			t.Fatalf("region %q has nonzero counts with no reports", v.Name)
		}
	}
}

func TestClassifyEmptyCatalog(t *testing.T) {
	if _, err := Classify(nil, nil, 1); err != ErrEmptyCatalog {
		t.Fatalf("err = %v, want ErrEmptyCatalog", err)
	}
}

func TestClassifyMultiPolygonUnion(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	// One point in the Andaman group, one in the Nicobar group, one in
	// neither. The region is the union of its member polygons.
	reports := []models.Report{
		report(12.0, 92.8, models.StatusPending),
		report(8.0, 93.8, models.StatusPending),
		report(12.0, 95.0, models.StatusPending),
	}

	result, err := Classify(catalog.Regions(), reports, 10)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	sundaland := findView(t, result, "Sundaland (Andaman & Nicobar Islands)")
	if sundaland.ReportCount != 2 {
		t.Fatalf("multipolygon count = %d, want 2", sundaland.ReportCount)
	}
}

func TestClassifyMalformedCoordinatesSkipped(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	reports := []models.Report{
		report(15.0, 74.8, models.StatusPending),
		report(math.NaN(), 75.0, models.StatusPending),
		report(95.0, 75.0, models.StatusPending),
		report(15.0, math.Inf(1), models.StatusPending),
	}

	result, err := Classify(catalog.Regions(), reports, 10)
	if err != nil {
		t.Fatalf("malformed coordinates must not abort classification: %v", err)
	}

	if got := findView(t, result, "Western Ghats").ReportCount; got != 1 {
		t.Fatalf("count = %d, want 1 (malformed reports excluded)", got)
	}
	if len(result.Diagnostics) != 3 {
		t.Fatalf("diagnostics = %d, want 3", len(result.Diagnostics))
	}
	for _, d := range result.Diagnostics {
		if d.Kind != "malformed_coordinate" {
			t.Fatalf("diagnostic kind = %q", d.Kind)
		}
	}
}

func TestClassifyDegenerateGeometry(t *testing.T) {
	regions := []Region{
		{Name: "Broken", Polygons: []Polygon{{Ring{{Lat: 1, Lng: 1}}}}},
		{Name: "Fine", Polygons: []Polygon{{square(0, 0, 10, 10)}}},
	}

	result, err := Classify(regions, []models.Report{report(5, 5, models.StatusPending)}, 1)
	if err != nil {
		t.Fatalf("degenerate geometry must not abort classification: %v", err)
	}

	if got := findView(t, result, "Broken").ReportCount; got != 0 {
		t.Fatalf("degenerate region count = %d, want 0", got)
	}
	if got := findView(t, result, "Fine").ReportCount; got != 1 {
		t.Fatalf("valid region count = %d, want 1", got)
	}

	found := false
	for _, d := range result.Diagnostics {
		if d.Kind == "degenerate_geometry" && d.Subject == "Broken" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected degenerate_geometry diagnostic for Broken")
	}
}

func TestClassifyDuplicateLocationsCountIndependently(t *testing.T) {
	regions := []Region{{Name: "Zone", Polygons: []Polygon{{square(0, 0, 10, 10)}}}}

	reports := []models.Report{
		report(5, 5, models.StatusPending),
		report(5, 5, models.StatusPending),
		report(5, 5, models.StatusApproved),
	}

	result, err := Classify(regions, reports, 10)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got := result.Views[0].ReportCount; got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	reports := []models.Report{
		report(15.0, 74.8, models.StatusApproved),
		report(30.0, 80.0, models.StatusPending),
		report(12.0, 92.8, models.StatusResolved),
	}

	first, err := Classify(catalog.Regions(), reports, 1)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	second, err := Classify(catalog.Regions(), reports, 1)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must yield identical results")
	}
}

func TestClassifyDoesNotMutateCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	before := make([]Region, len(catalog.Regions()))
	copy(before, catalog.Regions())

	if _, err := Classify(catalog.Regions(), []models.Report{report(15, 74.8, models.StatusPending)}, 1); err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if !reflect.DeepEqual(before, catalog.Regions()) {
		t.Fatal("classification must not mutate the shared catalog")
	}
}

func TestParseFeatureCollectionErrors(t *testing.T) {
	if _, err := ParseFeatureCollection([]byte(`{"type":"FeatureCollection","features":[]}`)); err != ErrEmptyCatalog {
		t.Fatalf("err = %v, want ErrEmptyCatalog", err)
	}
	if _, err := ParseFeatureCollection([]byte(`not json`)); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := ParseFeatureCollection([]byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"name":"X"},"geometry":{"type":"Point","coordinates":[1,2]}}]}`)); err == nil {
		t.Fatal("expected unsupported geometry error")
	}
}
