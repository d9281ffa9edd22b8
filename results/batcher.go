// Package results пишет итоги QA прогонов в Postgres через pgx.
package results

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"awareid-qa/config"
	"awareid-qa/model"
)

// Batcher асинхронно вставляет результаты прогонов через pgx.Batch.
type Batcher struct {
	input   chan model.TestResult
	config  config.BatchConfig
	sender  batchSender
	done    chan struct{}
	dropped atomic.Uint64
}

type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// NewBatcher создаёт батчер и запускает фоновые флаши.
func NewBatcher(ctx context.Context, pool *pgxpool.Pool, cfg config.BatchConfig) *Batcher {
	return newBatcher(ctx, pool, cfg)
}

// Enqueue пытается добавить результат в очередь; при переполнении возвращает false.
func (b *Batcher) Enqueue(result model.TestResult) bool {
	select {
	case b.input <- result:
		return true
	default:
		dropped := b.dropped.Add(1)
		if dropped%100 == 0 {
			log.Printf("батчер: очередь заполнена, всего отброшено %d результатов", dropped)
		}
		return false
	}
}

// Dropped возвращает число результатов, отброшенных из-за переполнения.
func (b *Batcher) Dropped() uint64 {
	return b.dropped.Load()
}

// Wait блокирует до остановки батчера и завершения финального флаша.
func (b *Batcher) Wait() {
	<-b.done
}

func (b *Batcher) run(ctx context.Context) {
	defer close(b.done)

	flushTicker := time.NewTicker(b.config.FlushEvery)
	statsTicker := time.NewTicker(b.config.StatsLogEvery)
	defer flushTicker.Stop()
	defer statsTicker.Stop()

	var (
		batch            = &pgx.Batch{}
		pending          = 0
		totalInserted    uint64
		intervalInserted uint64
	)

	const q = `
insert into test_results (
  name, endpoint, success, status_code, errors, warnings, duration_ms, ran_at
) values ($1,$2,$3,$4,$5,$6,$7,$8);`

	flush := func() {
		if pending == 0 {
			return
		}

		dbCtx, cancel := context.WithTimeout(context.Background(), b.config.FlushTimeout)
		defer cancel()

		br := b.sender.SendBatch(dbCtx, batch)
		if err := br.Close(); err != nil {
			log.Printf("ошибка флаша батчера: %v", err)
		}

		totalInserted += uint64(pending)
		intervalInserted += uint64(pending)

		batch = &pgx.Batch{}
		pending = 0
	}

	enqueue := func(result model.TestResult) {
		errorsJSON, _ := json.Marshal(result.Errors)
		warningsJSON, _ := json.Marshal(result.Warnings)
		batch.Queue(q,
			result.Name, result.Endpoint, result.Success, intPtr(result.StatusCode),
			errorsJSON, warningsJSON, result.DurationMs, result.RanAt.UTC(),
		)
		pending++
	}

	// хвост очереди добирается перед финальным флашем
	drain := func() {
		for {
			select {
			case result := <-b.input:
				enqueue(result)
			default:
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			flush()
			log.Printf("батчер: контекст отменён, всего вставлено строк = %d", totalInserted)
			return
		case <-flushTicker.C:
			flush()
		case <-statsTicker.C:
			log.Printf(
				"батчер: вставлено %d строк за %s (всего %d)",
				intervalInserted, b.config.StatsLogEvery, totalInserted,
			)
			intervalInserted = 0
		case result := <-b.input:
			enqueue(result)
			if pending >= b.config.MaxBatch {
				flush()
			}
		}
	}
}

func intPtr(i int) *int { return &i }

func newBatcher(ctx context.Context, sender batchSender, cfg config.BatchConfig) *Batcher {
	b := &Batcher{
		input:  make(chan model.TestResult, cfg.ChanBuffer),
		config: cfg,
		sender: sender,
		done:   make(chan struct{}),
	}

	go b.run(ctx)

	return b
}
