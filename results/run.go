package results

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunSummary — итог целого прогона: сколько проверок прошло и сколько упало.
type RunSummary struct {
	Suite      string
	Total      int
	Passed     int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// SaveRunSummary сохраняет итог прогона в базе с учётом заданного таймаута.
func SaveRunSummary(ctx context.Context, pool *pgxpool.Pool, summary RunSummary, timeout time.Duration) error {
	dbCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := pool.Exec(dbCtx, `
insert into qa_runs (
  suite, total, passed, failed, started_at, finished_at
) values ($1, $2, $3, $4, $5, $6);
`, summary.Suite, summary.Total, summary.Passed, summary.Failed, summary.StartedAt.UTC(), summary.FinishedAt.UTC())

	return err
}
