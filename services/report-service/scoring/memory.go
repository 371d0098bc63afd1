package scoring

import (
	"context"
	"sync"
)

// MemoryScoreKeeper holds point totals in memory. Used by tests and local
// runs without a user database.
type MemoryScoreKeeper struct {
	mu     sync.Mutex
	points map[string]int
}

func NewMemoryScoreKeeper(seed map[string]int) *MemoryScoreKeeper {
	points := make(map[string]int, len(seed))
	for id, p := range seed {
		points[id] = p
	}
	return &MemoryScoreKeeper{points: points}
}

func (k *MemoryScoreKeeper) Award(ctx context.Context, userID string, amount int) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	current, ok := k.points[userID]
	if !ok {
		return 0, ErrUnknownUser
	}
	current += amount
	k.points[userID] = current
	return current, nil
}

func (k *MemoryScoreKeeper) GetPoints(ctx context.Context, userID string) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	current, ok := k.points[userID]
	if !ok {
		return 0, ErrUnknownUser
	}
	return current, nil
}
