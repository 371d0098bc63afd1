package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is a report's moderation state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusResolved Status = "resolved"
)

// AnonymousSubmitter is the sentinel submitter id for anonymous reports.
// Anonymous reports never earn contributor points.
const AnonymousSubmitter = "anonymous"

var validStatuses = map[Status]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
	StatusResolved: true,
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !validStatuses[st] {
		return "", fmt.Errorf("unknown status: %q", s)
	}
	return st, nil
}

// IncidentTypes is the fixed set of pollution categories a report may carry.
var IncidentTypes = []string{
	"Water Discharge",
	"Air Emission",
	"Waste Dumping",
	"Oil Spill",
	"Chemical Leak",
	"Noise Pollution",
	"Deforestation",
	"Illegal Mining",
	"Soil Contamination",
	"Other",
}

func IsValidIncidentType(t string) bool {
	for _, it := range IncidentTypes {
		if it == t {
			return true
		}
	}
	return false
}

type Report struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type        string             `bson:"type" json:"type"`
	Description string             `bson:"description" json:"description"`
	Latitude    float64            `bson:"latitude" json:"latitude"`
	Longitude   float64            `bson:"longitude" json:"longitude"`
	PhotoURL    string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	SubmitterID string             `bson:"submitter_id" json:"submitter_id"`
	// SubmitterIDEnc stores the real submitter id encrypted (AES-GCM) for
	// anonymous reports. It is never returned in any API response.
	SubmitterIDEnc string    `bson:"submitter_id_enc,omitempty" json:"-"`
	Status         Status    `bson:"status" json:"status"`
	ImageRelevance *bool     `bson:"image_relevance,omitempty" json:"image_relevance,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// HasPhoto reports whether photographic evidence is attached, which raises
// the contributor point award on approval.
func (r *Report) HasPhoto() bool {
	return strings.TrimSpace(r.PhotoURL) != ""
}

// Validate checks the intake constraints on a new report.
func (r *Report) Validate() error {
	if !IsValidIncidentType(r.Type) {
		return fmt.Errorf("invalid incident type: %q", r.Type)
	}
	desc := strings.TrimSpace(r.Description)
	if len(desc) < 10 {
		return fmt.Errorf("description must be at least 10 characters")
	}
	if len(desc) > 500 {
		return fmt.Errorf("description must be less than 500 characters")
	}
	if err := ValidateCoordinates(r.Latitude, r.Longitude); err != nil {
		return err
	}
	if r.SubmitterID == "" {
		return fmt.Errorf("submitter id is required")
	}
	return nil
}

// ValidateCoordinates rejects non-finite or out-of-range coordinates.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return fmt.Errorf("coordinates must be finite")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", lng)
	}
	return nil
}

// ReportEvent is the payload published to the reports exchange when a report
// is created or transitions state.
type ReportEvent struct {
	ReportID      string    `json:"report_id"`
	Type          string    `json:"type"`
	Status        Status    `json:"status"`
	SubmitterID   string    `json:"submitter_id"`
	PointsAwarded int       `json:"points_awarded,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
