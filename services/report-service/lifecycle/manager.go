// Package lifecycle enforces the report moderation state machine:
//
//	pending -> approved -> resolved
//	pending -> rejected
//
// rejected and resolved are terminal. The first pending -> approved
// transition awards contributor points exactly once.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ecowatch-reporting-system/services/report-service/models"
	"ecowatch-reporting-system/services/report-service/scoring"
	"ecowatch-reporting-system/services/report-service/store"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_transitions_total",
			Help: "Total number of successful report status transitions",
		},
		[]string{"from", "to"},
	)

	pointsAwardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contributor_points_awarded_total",
			Help: "Total contributor points awarded on report approvals",
		},
	)

	lifecycleMetricsRegistered = false
)

// RegisterMetrics registers the lifecycle Prometheus collectors.
func RegisterMetrics() {
	if !lifecycleMetricsRegistered {
		prometheus.MustRegister(transitionsTotal)
		prometheus.MustRegister(pointsAwardedTotal)
		lifecycleMetricsRegistered = true
	}
}

// legal maps each status to its permitted successors.
var legal = map[models.Status]map[models.Status]bool{
	models.StatusPending: {
		models.StatusApproved: true,
		models.StatusRejected: true,
	},
	models.StatusApproved: {
		models.StatusResolved: true,
	},
	models.StatusRejected: {},
	models.StatusResolved: {},
}

// Outcome is the result of a successful transition. Warning is set when the
// status write committed but the contributor point award did not; the
// approval stands regardless.
type Outcome struct {
	Report        *models.Report `json:"report"`
	PointsAwarded int            `json:"points_awarded,omitempty"`
	NewTotal      int            `json:"new_total,omitempty"`
	Warning       string         `json:"-"`
}

// Manager owns the authority to change report status. No other component
// writes it.
type Manager struct {
	reports store.ReportStore
	scores  scoring.ScoreKeeper
	amounts scoring.Amounts
	publish func(models.ReportEvent) error

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

func NewManager(reports store.ReportStore, scores scoring.ScoreKeeper, amounts scoring.Amounts) *Manager {
	return &Manager{
		reports: reports,
		scores:  scores,
		amounts: amounts,
		locks:   make(map[string]*sync.Mutex),
		now:     time.Now,
	}
}

// SetPublisher installs a best-effort event sink for successful transitions.
func (m *Manager) SetPublisher(publish func(models.ReportEvent) error) {
	m.publish = publish
}

// lockFor returns the mutex that serializes transitions for one report id.
// Transitions on different reports proceed in parallel.
func (m *Manager) lockFor(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}

// Transition moves a report to the requested status if the state machine
// permits it. The status write commits before any side effect; a scoring
// failure after the commit is downgraded to Outcome.Warning.
func (m *Manager) Transition(ctx context.Context, reportID string, requested models.Status) (*Outcome, error) {
	lock := m.lockFor(reportID)
	lock.Lock()
	defer lock.Unlock()

	report, err := m.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	from := report.Status
	if !legal[from][requested] {
		return nil, &TransitionError{From: from, To: requested}
	}

	won, err := m.reports.UpdateStatusIf(ctx, reportID, from, requested)
	if err != nil {
		return nil, fmt.Errorf("status write failed: %w", err)
	}
	if !won {
		// An external writer raced us between the read and the
		// conditional update. Surface the fresh state as an illegal
		// transition; no side effect has been applied.
		fresh, ferr := m.reports.GetByID(ctx, reportID)
		if ferr != nil {
			return nil, ferr
		}
		return nil, &TransitionError{From: fresh.Status, To: requested}
	}

	report.Status = requested
	report.UpdatedAt = m.now()
	transitionsTotal.WithLabelValues(string(from), string(requested)).Inc()

	outcome := &Outcome{Report: report}

	// The award fires only on the winning pending -> approved update, so
	// retries of an already-applied transition can never re-award.
	if from == models.StatusPending && requested == models.StatusApproved &&
		report.SubmitterID != models.AnonymousSubmitter {
		amount := m.amounts.ForPhoto(report.HasPhoto())
		total, aerr := m.scores.Award(ctx, report.SubmitterID, amount)
		if aerr != nil {
			outcome.Warning = fmt.Sprintf("report approved but points not awarded: %v", aerr)
		} else {
			outcome.PointsAwarded = amount
			outcome.NewTotal = total
			pointsAwardedTotal.Add(float64(amount))
		}
	}

	if m.publish != nil {
		event := models.ReportEvent{
			ReportID:      reportID,
			Type:          report.Type,
			Status:        requested,
			SubmitterID:   report.SubmitterID,
			PointsAwarded: outcome.PointsAwarded,
			OccurredAt:    report.UpdatedAt,
		}
		if perr := m.publish(event); perr != nil && outcome.Warning == "" {
			outcome.Warning = fmt.Sprintf("status updated but event not published: %v", perr)
		}
	}

	return outcome, nil
}
