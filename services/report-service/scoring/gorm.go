package scoring

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GormScoreKeeper increments point totals in the shared users table. The
// award is a single UPDATE ... RETURNING statement, never a read-then-write
// pair, so concurrent awards cannot lose increments.
type GormScoreKeeper struct {
	db *gorm.DB
}

func NewGormScoreKeeper(db *gorm.DB) *GormScoreKeeper {
	return &GormScoreKeeper{db: db}
}

func (k *GormScoreKeeper) Award(ctx context.Context, userID string, amount int) (int, error) {
	var newTotal int
	result := k.db.WithContext(ctx).
		Raw("UPDATE users SET points = points + ?, updated_at = NOW() WHERE id = ? AND deleted_at IS NULL RETURNING points",
			amount, userID).
		Scan(&newTotal)
	if result.Error != nil {
		return 0, fmt.Errorf("award points: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrUnknownUser
	}
	return newTotal, nil
}

func (k *GormScoreKeeper) GetPoints(ctx context.Context, userID string) (int, error) {
	var points int
	result := k.db.WithContext(ctx).
		Raw("SELECT points FROM users WHERE id = ? AND deleted_at IS NULL", userID).
		Scan(&points)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, ErrUnknownUser
		}
		return 0, fmt.Errorf("get points: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrUnknownUser
	}
	return points, nil
}
