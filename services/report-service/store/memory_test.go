package store

import (
	"context"
	"errors"
	"testing"

	"ecowatch-reporting-system/services/report-service/models"
)

func insert(t *testing.T, s *MemoryStore, submitter string, status models.Status) string {
	t.Helper()
	id, err := s.Insert(context.Background(), &models.Report{
		Type:        "Waste Dumping",
		Description: "illegal dumping near the river bank",
		Latitude:    10,
		Longitude:   10,
		SubmitterID: submitter,
		Status:      status,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return id
}

func TestInsertAndGet(t *testing.T) {
	s := NewMemoryStore()
	id := insert(t, s, "u1", models.StatusPending)

	r, err := s.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if r.SubmitterID != "u1" || r.Status != models.StatusPending {
		t.Fatalf("unexpected report: %+v", r)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.GetByID(context.Background(), "64f000000000000000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetByIDReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	id := insert(t, s, "u1", models.StatusPending)

	r, _ := s.GetByID(context.Background(), id)
	r.Status = models.StatusApproved

	fresh, _ := s.GetByID(context.Background(), id)
	if fresh.Status != models.StatusPending {
		t.Fatal("mutating a fetched report must not change the store")
	}
}

func TestListByStatusAndUser(t *testing.T) {
	s := NewMemoryStore()
	insert(t, s, "u1", models.StatusPending)
	insert(t, s, "u1", models.StatusApproved)
	insert(t, s, "u2", models.StatusPending)

	pending, err := s.ListByStatus(context.Background(), models.StatusPending)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}

	mine, err := s.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("u1 reports = %d, want 2", len(mine))
	}

	all, err := s.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all reports = %d, want 3", len(all))
	}
}

func TestUpdateStatusIf(t *testing.T) {
	s := NewMemoryStore()
	id := insert(t, s, "u1", models.StatusPending)

	won, err := s.UpdateStatusIf(context.Background(), id, models.StatusPending, models.StatusApproved)
	if err != nil {
		t.Fatalf("UpdateStatusIf: %v", err)
	}
	if !won {
		t.Fatal("expected the conditional update to win")
	}

	// A second attempt with the stale expectation must lose without error.
	won, err = s.UpdateStatusIf(context.Background(), id, models.StatusPending, models.StatusRejected)
	if err != nil {
		t.Fatalf("UpdateStatusIf: %v", err)
	}
	if won {
		t.Fatal("conditional update with stale expectation must lose")
	}

	r, _ := s.GetByID(context.Background(), id)
	if r.Status != models.StatusApproved {
		t.Fatalf("status = %s, want approved", r.Status)
	}
}

func TestUpdateStatusIfNotFound(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.UpdateStatusIf(context.Background(), "missing", models.StatusPending, models.StatusApproved); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
