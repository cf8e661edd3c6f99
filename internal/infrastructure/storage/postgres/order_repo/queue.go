package order_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/domain/orders"
	"stitchline/internal/infrastructure/storage/postgres"
)

const jobTable = "stock_reconcile_jobs"

// QueueRepo implements orders.Queue.
// A partial unique index on (order_id) WHERE processed_at IS NULL guarantees
// at most one unprocessed job per order.
type QueueRepo struct {
	txManager *postgres.TxManager
}

// NewQueueRepo creates a new job queue repository.
func NewQueueRepo(txManager *postgres.TxManager) *QueueRepo {
	return &QueueRepo{txManager: txManager}
}

func (r *QueueRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Enqueue inserts a job. A duplicate unprocessed job is rejected.
func (r *QueueRepo) Enqueue(ctx context.Context, job *orders.Job) error {
	q := r.builder().
		Insert(jobTable).
		Columns("id", "order_id", "staff_id", "enqueued_at", "attempts").
		Values(job.ID, job.OrderID, job.StaffID, job.EnqueuedAt, job.Attempts)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert job: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("reconciliation already queued for this order").
				WithDetail("order_id", job.OrderID.String()).
				WithCause(err)
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Claim locks up to limit unprocessed jobs. Competing workers skip rows
// locked by each other. Jobs that exhausted their attempts stay in the table
// for inspection but are never claimed again.
func (r *QueueRepo) Claim(ctx context.Context, limit int) ([]*orders.Job, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[orders.Job]()...).
		From(jobTable).
		Where(squirrel.Eq{"processed_at": nil}).
		Where(squirrel.Lt{"attempts": orders.MaxAttempts}).
		OrderBy("enqueued_at").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build claim query: %w", err)
	}

	var jobs []*orders.Job
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &jobs, sql, args...); err != nil {
		return nil, fmt.Errorf("claim jobs: %w", err)
	}
	return jobs, nil
}

// MarkProcessed stamps processed_at.
func (r *QueueRepo) MarkProcessed(ctx context.Context, jobID id.ID) error {
	q := r.builder().
		Update(jobTable).
		Set("processed_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": jobID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update job: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark job processed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("reconcile job", jobID.String())
	}
	return nil
}

// MarkFailed increments attempts and records the error text.
func (r *QueueRepo) MarkFailed(ctx context.Context, jobID id.ID, cause error) error {
	q := r.builder().
		Update(jobTable).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", cause.Error()).
		Where(squirrel.Eq{"id": jobID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update job: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	return nil
}
