// Package scoring credits contributor point totals when reports are
// approved. The increment must be atomic at the store layer so that
// concurrent approvals for the same user never lose an award.
package scoring

import (
	"context"
	"errors"
	"os"
	"strconv"
)

// ErrUnknownUser means the user record does not exist. The lifecycle
// manager treats this as a non-fatal warning.
var ErrUnknownUser = errors.New("unknown user")

type ScoreKeeper interface {
	// Award atomically adds amount to the user's point total and returns
	// the new total.
	Award(ctx context.Context, userID string, amount int) (int, error)
	// GetPoints returns the user's current point total.
	GetPoints(ctx context.Context, userID string) (int, error)
}

// Amounts holds the point values awarded on approval. Whether a report
// carries photographic evidence decides which value applies. These are
// product policy values, configurable per deployment.
type Amounts struct {
	WithPhoto    int
	WithoutPhoto int
}

func DefaultAmounts() Amounts {
	return Amounts{WithPhoto: 20, WithoutPhoto: 10}
}

// AmountsFromEnv reads POINTS_WITH_PHOTO / POINTS_WITHOUT_PHOTO, falling
// back to the defaults for unset or invalid values.
func AmountsFromEnv() Amounts {
	a := DefaultAmounts()
	if v, err := strconv.Atoi(os.Getenv("POINTS_WITH_PHOTO")); err == nil && v >= 0 {
		a.WithPhoto = v
	}
	if v, err := strconv.Atoi(os.Getenv("POINTS_WITHOUT_PHOTO")); err == nil && v >= 0 {
		a.WithoutPhoto = v
	}
	return a
}

// ForPhoto picks the award amount based on attached evidence.
func (a Amounts) ForPhoto(hasPhoto bool) int {
	if hasPhoto {
		return a.WithPhoto
	}
	return a.WithoutPhoto
}
