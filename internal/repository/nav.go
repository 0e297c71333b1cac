package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhagglund/navpulse/internal/models"
)

type NavRepo struct {
	pool *pgxpool.Pool
}

func NewNavRepo(pool *pgxpool.Pool) *NavRepo {
	return &NavRepo{pool: pool}
}

func (r *NavRepo) RecordRun(ctx context.Context, run *models.NavRun) (*models.NavRun, error) {
	ts := run.ComputedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO nav_runs
		 (computed_at, status, value, covered_weight, degraded,
		  holdings_source, shares_outstanding_source)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING *`,
		ts, run.Status, run.Value, run.CoveredWeight, run.Degraded,
		run.HoldingsSource, run.SharesOutstandingSource,
	)
	return scanRun(row)
}

func (r *NavRepo) GetLatest(ctx context.Context) (*models.NavRun, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT * FROM nav_runs ORDER BY computed_at DESC LIMIT 1`,
	)
	run, err := scanRun(row)
	if err != nil {
		if err.Error() == "no rows in result set" {
			return nil, nil
		}
		return nil, err
	}
	return run, nil
}

func (r *NavRepo) GetHistory(ctx context.Context, limit int) ([]models.NavRun, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM nav_runs ORDER BY computed_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRuns(rows)
}

// GetLatestSuccessful skips error runs, returning the newest run that
// produced a value. Nil when no successful run exists yet.
func (r *NavRepo) GetLatestSuccessful(ctx context.Context) (*models.NavRun, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT * FROM nav_runs WHERE status = $1 ORDER BY computed_at DESC LIMIT 1`,
		models.RunStatusOK,
	)
	run, err := scanRun(row)
	if err != nil {
		if err.Error() == "no rows in result set" {
			return nil, nil
		}
		return nil, err
	}
	return run, nil
}

func (r *NavRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM nav_runs WHERE computed_at >= $1`,
		since,
	).Scan(&count)
	return count, err
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRun(row scannable) (*models.NavRun, error) {
	var run models.NavRun
	err := row.Scan(
		&run.ID, &run.ComputedAt, &run.Status, &run.Value, &run.CoveredWeight,
		&run.Degraded, &run.HoldingsSource, &run.SharesOutstandingSource,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func collectRuns(rows rowsIter) ([]models.NavRun, error) {
	var out []models.NavRun
	for rows.Next() {
		var run models.NavRun
		if err := rows.Scan(
			&run.ID, &run.ComputedAt, &run.Status, &run.Value, &run.CoveredWeight,
			&run.Degraded, &run.HoldingsSource, &run.SharesOutstandingSource,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
