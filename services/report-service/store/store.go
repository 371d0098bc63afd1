// Package store defines the report persistence boundary. The lifecycle
// manager and the hotspot classifier consume reports exclusively through
// the ReportStore interface.
package store

import (
	"context"
	"errors"

	"ecowatch-reporting-system/services/report-service/models"
)

var (
	// ErrNotFound means the referenced report does not exist.
	ErrNotFound = errors.New("report not found")
	// ErrUnavailable wraps transient store failures (timeouts, lost
	// connections). Callers may retry with backoff, but must re-check the
	// current status before retrying a transition.
	ErrUnavailable = errors.New("report store unavailable")
)

type ReportStore interface {
	Insert(ctx context.Context, r *models.Report) (string, error)
	GetByID(ctx context.Context, id string) (*models.Report, error)
	ListAll(ctx context.Context) ([]models.Report, error)
	ListByStatus(ctx context.Context, status models.Status) ([]models.Report, error)
	ListByUser(ctx context.Context, userID string) ([]models.Report, error)

	// UpdateStatusIf atomically sets the status to next only if the current
	// status equals expected. It returns true when this caller won the
	// update, false when the precondition no longer held.
	UpdateStatusIf(ctx context.Context, id string, expected, next models.Status) (bool, error)
}
