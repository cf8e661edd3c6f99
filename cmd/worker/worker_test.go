package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stitchline/internal/core/apperror"
	"stitchline/internal/core/id"
	"stitchline/internal/domain/orders"
	"stitchline/pkg/logger"
)

type passTxManager struct{}

func (passTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memQueue mirrors the postgres queue semantics: unprocessed jobs claimed
// oldest first, jobs past the attempt cap never claimed again.
type memQueue struct {
	jobs []*orders.Job
}

func (q *memQueue) Enqueue(_ context.Context, job *orders.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *memQueue) Claim(_ context.Context, limit int) ([]*orders.Job, error) {
	var out []*orders.Job
	for _, j := range q.jobs {
		if j.ProcessedAt != nil || j.Attempts >= orders.MaxAttempts {
			continue
		}
		out = append(out, j)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (q *memQueue) MarkProcessed(_ context.Context, jobID id.ID) error {
	for _, j := range q.jobs {
		if j.ID == jobID {
			now := time.Now().UTC()
			j.ProcessedAt = &now
			return nil
		}
	}
	return apperror.NewNotFound("reconcile job", jobID.String())
}

func (q *memQueue) MarkFailed(_ context.Context, jobID id.ID, cause error) error {
	for _, j := range q.jobs {
		if j.ID == jobID {
			j.Attempts++
			msg := cause.Error()
			j.LastError = &msg
			return nil
		}
	}
	return apperror.NewNotFound("reconcile job", jobID.String())
}

type stubReconciler struct {
	failFor id.ID
	runs    map[id.ID]int
}

func (s *stubReconciler) Run(_ context.Context, orderID, _ id.ID) error {
	s.runs[orderID]++
	if orderID == s.failFor {
		return apperror.NewNotFound("order", orderID.String())
	}
	return nil
}

func newTestWorker(queue orders.Queue, rec reconcileRunner) *Worker {
	return NewWorker(WorkerConfig{
		TxManager:    passTxManager{},
		Queue:        queue,
		Reconciler:   rec,
		PollInterval: time.Minute,
		Logger:       logger.Default(),
	})
}

func TestWorker_DrainProcessesQueuedJobs(t *testing.T) {
	queue := &memQueue{}
	first := orders.NewJob(id.New(), id.New())
	second := orders.NewJob(id.New(), id.New())
	second.EnqueuedAt = first.EnqueuedAt.Add(time.Second)
	require.NoError(t, queue.Enqueue(context.Background(), first))
	require.NoError(t, queue.Enqueue(context.Background(), second))

	rec := &stubReconciler{runs: map[id.ID]int{}}
	w := newTestWorker(queue, rec)

	w.drain(context.Background())

	require.NotNil(t, first.ProcessedAt)
	require.NotNil(t, second.ProcessedAt)
	assert.Equal(t, 1, rec.runs[first.OrderID])
	assert.Equal(t, 1, rec.runs[second.OrderID])

	// a processed job is never claimed again
	w.drain(context.Background())
	assert.Equal(t, 1, rec.runs[first.OrderID])
}

func TestWorker_DrainSkipsExhaustedJob(t *testing.T) {
	// a job for a missing order fails on every attempt; after the cap it
	// must stop blocking jobs queued behind it
	bad := orders.NewJob(id.New(), id.New())
	good := orders.NewJob(id.New(), id.New())
	good.EnqueuedAt = bad.EnqueuedAt.Add(time.Second)

	queue := &memQueue{}
	require.NoError(t, queue.Enqueue(context.Background(), bad))
	require.NoError(t, queue.Enqueue(context.Background(), good))

	rec := &stubReconciler{failFor: bad.OrderID, runs: map[id.ID]int{}}
	w := newTestWorker(queue, rec)

	for i := 0; i < 2*orders.MaxAttempts; i++ {
		w.drain(context.Background())
	}

	assert.Nil(t, bad.ProcessedAt)
	assert.Equal(t, orders.MaxAttempts, bad.Attempts)
	assert.Equal(t, orders.MaxAttempts, rec.runs[bad.OrderID])
	require.NotNil(t, bad.LastError)

	require.NotNil(t, good.ProcessedAt)
	assert.Equal(t, 1, rec.runs[good.OrderID])
}

func TestWorker_FailedJobKeepsAttemptCounter(t *testing.T) {
	job := orders.NewJob(id.New(), id.New())
	queue := &memQueue{}
	require.NoError(t, queue.Enqueue(context.Background(), job))

	rec := &stubReconciler{failFor: job.OrderID, runs: map[id.ID]int{}}
	w := newTestWorker(queue, rec)

	processed, err := w.processOne(context.Background())
	assert.False(t, processed)
	require.Error(t, err)

	assert.Equal(t, 1, job.Attempts)
	require.NotNil(t, job.LastError)
	assert.Contains(t, *job.LastError, "order")
}
