package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhagglund/navpulse/internal/models"
)

// RunRecorder abstracts the run-history store so the reporter can be tested
// without a real database.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *models.NavRun) (*models.NavRun, error)
}

// RepoReporter appends one row per run to the history store.
type RepoReporter struct {
	repo RunRecorder
}

func NewRepoReporter(repo RunRecorder) *RepoReporter {
	return &RepoReporter{repo: repo}
}

func (r *RepoReporter) Publish(ctx context.Context, o Outcome) error {
	run := &models.NavRun{
		ComputedAt:              time.Now().UTC(),
		Status:                  models.RunStatusError,
		HoldingsSource:          o.HoldingsSource,
		SharesOutstandingSource: models.SharesOutstandingSource,
	}
	if o.Estimate != nil {
		value := o.Estimate.ResultValue()
		covered := o.Estimate.CoveredWeight.StringFixed(4)
		run.ComputedAt = o.Estimate.ComputedAt
		run.Status = models.RunStatusOK
		run.Value = &value
		run.CoveredWeight = &covered
		run.Degraded = o.Estimate.Degraded
	}

	if _, err := r.repo.RecordRun(ctx, run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}
