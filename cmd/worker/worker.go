package main

import (
	"context"
	"errors"
	"time"

	"stitchline/internal/core/id"
	"stitchline/internal/core/tx"
	"stitchline/internal/domain/orders"
	"stitchline/pkg/logger"
)

// reconcileRunner books stock movements for a completed order.
// Satisfied by *orders.Reconciler.
type reconcileRunner interface {
	Run(ctx context.Context, orderID, staffID id.ID) error
}

// Worker drains the reconcile job queue. One job is processed per
// transaction: the claim lock, the stock bookings and the processed stamp
// commit together, so a crash mid-job releases the claim untouched.
type Worker struct {
	txManager    tx.Manager
	queue        orders.Queue
	reconciler   reconcileRunner
	pollInterval time.Duration
	log          *logger.Logger
}

// WorkerConfig wires worker dependencies.
type WorkerConfig struct {
	TxManager    tx.Manager
	Queue        orders.Queue
	Reconciler   reconcileRunner
	PollInterval time.Duration
	Logger       *logger.Logger
}

// NewWorker creates a queue worker.
func NewWorker(cfg WorkerConfig) *Worker {
	return &Worker{
		txManager:    cfg.TxManager,
		queue:        cfg.Queue,
		reconciler:   cfg.Reconciler,
		pollInterval: cfg.PollInterval,
		log:          cfg.Logger.WithComponent("worker"),
	}
}

// Run polls the queue until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain processes queued jobs until the queue is empty.
func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		processed, err := w.processOne(ctx)
		if err != nil || !processed {
			return
		}
	}
}

// processOne claims and runs a single job. Returns false when the queue is
// empty. A failed job rolls the whole transaction back; the failure is then
// recorded in a fresh transaction so the attempt counter survives.
func (w *Worker) processOne(ctx context.Context) (bool, error) {
	var failed *orders.Job
	var failCause error

	err := w.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		jobs, err := w.queue.Claim(ctx, 1)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			return errQueueEmpty
		}
		job := jobs[0]

		if err := w.reconciler.Run(ctx, job.OrderID, job.StaffID); err != nil {
			failed = job
			failCause = err
			return err
		}

		return w.queue.MarkProcessed(ctx, job.ID)
	})

	if errors.Is(err, errQueueEmpty) {
		return false, nil
	}
	if err != nil {
		if failed != nil {
			if markErr := w.queue.MarkFailed(ctx, failed.ID, failCause); markErr != nil {
				w.log.Errorw("failed to record job failure",
					"job_id", failed.ID.String(), "error", markErr)
			}
			w.log.Errorw("reconcile job failed",
				"job_id", failed.ID.String(),
				"order_id", failed.OrderID.String(),
				"error", failCause,
			)
		} else {
			w.log.Errorw("queue processing failed", "error", err)
		}
		return false, err
	}
	return true, nil
}

// errQueueEmpty aborts the claim transaction without logging an error.
var errQueueEmpty = errors.New("queue empty")
