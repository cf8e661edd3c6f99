package orders

import (
	"context"
	"time"

	"stitchline/internal/core/id"
)

// Job is a queued reconciliation request. The queue exists because the
// reconciliation itself is not idempotent: each order completion must be
// dispatched at most once, and the worker claims jobs under a row lock.
type Job struct {
	ID          id.ID      `db:"id" json:"id"`
	OrderID     id.ID      `db:"order_id" json:"orderId"`
	StaffID     id.ID      `db:"staff_id" json:"staffId"`
	EnqueuedAt  time.Time  `db:"enqueued_at" json:"enqueuedAt"`
	ProcessedAt *time.Time `db:"processed_at" json:"processedAt,omitempty"`
	Attempts    int        `db:"attempts" json:"attempts"`
	LastError   *string    `db:"last_error" json:"lastError,omitempty"`
}

// MaxAttempts bounds retries of a failing job. Claim skips exhausted jobs,
// so one bad order cannot block the queue for everyone behind it.
const MaxAttempts = 5

// NewJob creates a queued job.
func NewJob(orderID, staffID id.ID) *Job {
	return &Job{
		ID:         id.New(),
		OrderID:    orderID,
		StaffID:    staffID,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Queue persists reconciliation jobs.
type Queue interface {
	// Enqueue inserts a job. A second unprocessed job for the same order is
	// rejected with a conflict error.
	Enqueue(ctx context.Context, job *Job) error

	// Claim locks up to limit unprocessed jobs with FOR UPDATE SKIP LOCKED,
	// skipping jobs that already burned MaxAttempts.
	// Must run inside a transaction; the lock holds until commit.
	Claim(ctx context.Context, limit int) ([]*Job, error)

	// MarkProcessed stamps processed_at.
	MarkProcessed(ctx context.Context, jobID id.ID) error

	// MarkFailed increments attempts and records the error text.
	MarkFailed(ctx context.Context, jobID id.ID, cause error) error
}
