package lifecycle

import (
	"errors"
	"fmt"

	"ecowatch-reporting-system/services/report-service/models"
)

// ErrInvalidTransition means the requested status is not a legal successor
// of the report's current status. The report is left unchanged.
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionError carries the offending status pair for a clear rejection
// message.
type TransitionError struct {
	From models.Status
	To   models.Status
}

func (e *TransitionError) Error() string {
	verb := map[models.Status]string{
		models.StatusApproved: "approve",
		models.StatusRejected: "reject",
		models.StatusResolved: "resolve",
		models.StatusPending:  "mark as pending",
	}[e.To]
	if verb == "" {
		verb = fmt.Sprintf("mark as %s", e.To)
	}

	switch e.From {
	case models.StatusRejected, models.StatusResolved:
		return fmt.Sprintf("cannot %s an already-%s report", verb, e.From)
	default:
		return fmt.Sprintf("cannot %s a %s report", verb, e.From)
	}
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
