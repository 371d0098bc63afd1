package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ecowatch-reporting-system/services/report-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-memory ReportStore used by tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]models.Report
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]models.Report)}
}

func (s *MemoryStore) Insert(ctx context.Context, r *models.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	id := r.ID.Hex()
	if _, exists := s.reports[id]; exists {
		return "", fmt.Errorf("duplicate report id %s", id)
	}
	s.reports[id] = *r
	return id, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := r
	return &copied, nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]models.Report, error) {
	return s.list(func(models.Report) bool { return true }), nil
}

func (s *MemoryStore) ListByStatus(ctx context.Context, status models.Status) ([]models.Report, error) {
	return s.list(func(r models.Report) bool { return r.Status == status }), nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID string) ([]models.Report, error) {
	return s.list(func(r models.Report) bool { return r.SubmitterID == userID }), nil
}

func (s *MemoryStore) list(keep func(models.Report) bool) []models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s *MemoryStore) UpdateStatusIf(ctx context.Context, id string, expected, next models.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return false, ErrNotFound
	}
	if r.Status != expected {
		return false, nil
	}
	r.Status = next
	r.UpdatedAt = time.Now()
	s.reports[id] = r
	return true, nil
}
