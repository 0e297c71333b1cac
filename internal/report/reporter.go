// Package report externalizes a run's outcome: the result artifact and the
// source-label artifact, plus optional run-history and webhook sinks.
package report

import (
	"context"
	"fmt"

	"github.com/jhagglund/navpulse/internal/models"
)

// ErrorLiteral is written to the result artifact on a terminal failure; the
// orchestrator reading the artifact matches it verbatim.
const ErrorLiteral = "ERROR"

// Outcome is what a run hands to the reporting boundary exactly once:
// either a fully populated estimate or a terminal failure.
type Outcome struct {
	Estimate       *models.NavEstimate // nil on failure
	HoldingsSource string
	Err            error // nil on success
}

func Success(est models.NavEstimate) Outcome {
	return Outcome{Estimate: &est, HoldingsSource: est.HoldingsSource}
}

func Failure(holdingsSource string, err error) Outcome {
	return Outcome{HoldingsSource: holdingsSource, Err: err}
}

// ResultValue is the literal for the result artifact: the 4-decimal
// estimate, or ErrorLiteral on failure.
func (o Outcome) ResultValue() string {
	if o.Estimate == nil {
		return ErrorLiteral
	}
	return o.Estimate.ResultValue()
}

type Reporter interface {
	Publish(ctx context.Context, o Outcome) error
}

// Multi fans an outcome out to several reporters. Individual reporter
// failures are logged and swallowed: publication best-effort continues and
// the orchestrator observes the run's exit code, not the sinks.
type Multi []Reporter

func (m Multi) Publish(ctx context.Context, o Outcome) error {
	for _, r := range m {
		if err := r.Publish(ctx, o); err != nil {
			fmt.Printf("[REPORT] Reporter %T failed: %v\n", r, err)
		}
	}
	return nil
}
