package scoring

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestAwardAccumulates(t *testing.T) {
	k := NewMemoryScoreKeeper(map[string]int{"u1": 5})

	total, err := k.Award(context.Background(), "u1", 20)
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	if total != 25 {
		t.Fatalf("total = %d, want 25", total)
	}

	total, err = k.GetPoints(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetPoints: %v", err)
	}
	if total != 25 {
		t.Fatalf("stored total = %d, want 25", total)
	}
}

func TestAwardUnknownUser(t *testing.T) {
	k := NewMemoryScoreKeeper(nil)

	if _, err := k.Award(context.Background(), "nobody", 10); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("Award err = %v, want ErrUnknownUser", err)
	}
	if _, err := k.GetPoints(context.Background(), "nobody"); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("GetPoints err = %v, want ErrUnknownUser", err)
	}
}

func TestConcurrentAwardsLoseNothing(t *testing.T) {
	const (
		workers = 50
		amount  = 10
	)

	k := NewMemoryScoreKeeper(map[string]int{"u1": 0})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := k.Award(context.Background(), "u1", amount); err != nil {
				t.Errorf("Award: %v", err)
			}
		}()
	}
	wg.Wait()

	total, err := k.GetPoints(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetPoints: %v", err)
	}
	if total != workers*amount {
		t.Fatalf("total = %d, want %d", total, workers*amount)
	}
}

func TestSeedIsCopied(t *testing.T) {
	seed := map[string]int{"u1": 1}
	k := NewMemoryScoreKeeper(seed)

	seed["u1"] = 99
	if total, _ := k.GetPoints(context.Background(), "u1"); total != 1 {
		t.Fatalf("keeper shares the seed map, total = %d", total)
	}
}

func TestAmountsForPhoto(t *testing.T) {
	a := DefaultAmounts()

	if got := a.ForPhoto(true); got != 20 {
		t.Fatalf("ForPhoto(true) = %d, want 20", got)
	}
	if got := a.ForPhoto(false); got != 10 {
		t.Fatalf("ForPhoto(false) = %d, want 10", got)
	}
}

func TestAmountsFromEnv(t *testing.T) {
	t.Setenv("POINTS_WITH_PHOTO", "50")
	t.Setenv("POINTS_WITHOUT_PHOTO", "not-a-number")

	a := AmountsFromEnv()
	if a.WithPhoto != 50 {
		t.Fatalf("WithPhoto = %d, want 50", a.WithPhoto)
	}
	if a.WithoutPhoto != 10 {
		t.Fatalf("WithoutPhoto = %d, want default 10", a.WithoutPhoto)
	}
}
