package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhagglund/navpulse/internal/models"
)

func estimate(value, covered string, degraded bool) models.NavEstimate {
	return models.NavEstimate{
		Value:                   decimal.RequireFromString(value),
		Degraded:                degraded,
		CoveredWeight:           decimal.RequireFromString(covered),
		HoldingsSource:          "xlsx",
		SharesOutstandingSource: models.SharesOutstandingSource,
		ComputedAt:              time.Now().UTC(),
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestFileReporter_Success(t *testing.T) {
	dir := t.TempDir()
	resultPath := filepath.Join(dir, "nav_result.txt")
	sourcePath := filepath.Join(dir, "source_used.txt")

	r := NewFileReporter(resultPath, sourcePath)
	if err := r.Publish(context.Background(), Success(estimate("14", "1", false))); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if got := readFile(t, resultPath); got != "14.0000" {
		t.Fatalf("result artifact: %q", got)
	}
	if got := readFile(t, sourcePath); got != "xlsx" {
		t.Fatalf("source artifact: %q", got)
	}
}

func TestFileReporter_Failure(t *testing.T) {
	dir := t.TempDir()
	resultPath := filepath.Join(dir, "nav_result.txt")
	sourcePath := filepath.Join(dir, "source_used.txt")

	r := NewFileReporter(resultPath, sourcePath)
	err := r.Publish(context.Background(), Failure("unavailable", errors.New("all candidates failed")))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if got := readFile(t, resultPath); got != ErrorLiteral {
		t.Fatalf("result artifact must hold the error literal, got %q", got)
	}
	if got := readFile(t, sourcePath); got != "unavailable" {
		t.Fatalf("source artifact: %q", got)
	}
}

type stubRecorder struct {
	last *models.NavRun
	err  error
}

func (s *stubRecorder) RecordRun(ctx context.Context, run *models.NavRun) (*models.NavRun, error) {
	s.last = run
	return run, s.err
}

func TestRepoReporter_Success(t *testing.T) {
	rec := &stubRecorder{}
	r := NewRepoReporter(rec)

	if err := r.Publish(context.Background(), Success(estimate("14.1234", "0.95", true))); err != nil {
		t.Fatalf("publish: %v", err)
	}

	run := rec.last
	if run == nil || run.Status != models.RunStatusOK {
		t.Fatalf("run: %+v", run)
	}
	if run.Value == nil || *run.Value != "14.1234" {
		t.Fatalf("value: %v", run.Value)
	}
	if run.CoveredWeight == nil || *run.CoveredWeight != "0.9500" {
		t.Fatalf("covered weight: %v", run.CoveredWeight)
	}
	if !run.Degraded {
		t.Fatal("degraded flag lost")
	}
}

func TestRepoReporter_Failure(t *testing.T) {
	rec := &stubRecorder{}
	r := NewRepoReporter(rec)

	err := r.Publish(context.Background(), Failure("unavailable", errors.New("boom")))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	run := rec.last
	if run.Status != models.RunStatusError {
		t.Fatalf("status: %q", run.Status)
	}
	if run.Value != nil {
		t.Fatalf("error run must carry no value, got %v", *run.Value)
	}
	if run.HoldingsSource != "unavailable" {
		t.Fatalf("holdings source: %q", run.HoldingsSource)
	}
}

type stubNotifier struct {
	msgs []string
}

func (s *stubNotifier) Send(msg string) { s.msgs = append(s.msgs, msg) }

func TestWebhookReporter(t *testing.T) {
	n := &stubNotifier{}
	r := NewWebhookReporter(n)

	r.Publish(context.Background(), Success(estimate("14", "1", false)))
	r.Publish(context.Background(), Success(estimate("10", "0.6", true)))
	r.Publish(context.Background(), Failure("unavailable", errors.New("boom")))

	if len(n.msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(n.msgs))
	}
	if !strings.Contains(n.msgs[0], "14.00") || !strings.Contains(n.msgs[0], "100.0%") {
		t.Fatalf("success message: %q", n.msgs[0])
	}
	if !strings.Contains(n.msgs[1], "DEGRADED") || !strings.Contains(n.msgs[1], "60.0%") {
		t.Fatalf("degraded message: %q", n.msgs[1])
	}
	if !strings.Contains(n.msgs[2], "FAILED") || !strings.Contains(n.msgs[2], "unavailable") {
		t.Fatalf("failure message: %q", n.msgs[2])
	}
}

type failingReporter struct{}

func (failingReporter) Publish(ctx context.Context, o Outcome) error {
	return errors.New("sink down")
}

func TestMulti_ContinuesPastFailures(t *testing.T) {
	rec := &stubRecorder{}
	m := Multi{failingReporter{}, NewRepoReporter(rec)}

	if err := m.Publish(context.Background(), Success(estimate("14", "1", false))); err != nil {
		t.Fatalf("multi must swallow sink failures, got %v", err)
	}
	if rec.last == nil {
		t.Fatal("later reporter not reached")
	}
}
