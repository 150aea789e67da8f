// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/serp-analyzer/internal/classify"
	"github.com/pdiddy/serp-analyzer/pkg/types"
)

// DefaultTimeout is the global deadline for one ClassifyAll batch.
const DefaultTimeout = 30 * time.Second

// Classifier labels a single record. *classify.Classifier implements it.
type Classifier interface {
	Classify(record types.TextRecord) classify.LabelSet
}

// Stats counts how each record of a batch ended.
type Stats struct {
	Completed int
	Failed    int
	TimedOut  int
}

// Dispatcher fans classification tasks out to a shared Pool.
type Dispatcher struct {
	pool       *Pool
	classifier Classifier
	timeout    time.Duration
	logger     *slog.Logger
}

// NewDispatcher returns a Dispatcher that runs classifier on pool. A
// non-positive timeout uses DefaultTimeout.
func NewDispatcher(pool *Pool, classifier Classifier, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		pool:       pool,
		classifier: classifier,
		timeout:    timeout,
		logger:     logger.With("component", "dispatcher"),
	}
}

// outcome is the immutable result of one task.
type outcome struct {
	index  int
	labels classify.LabelSet
	err    error
}

// ClassifyAll classifies every record on the pool and returns one label
// set per record, index-aligned with records. It waits until all tasks
// finish, the dispatcher timeout elapses, or ctx ends. Records whose task
// failed or did not finish in time get an empty set. The only error is
// ErrPoolClosed, when no task could be submitted at all.
func (d *Dispatcher) ClassifyAll(ctx context.Context, records []types.TextRecord) ([]classify.LabelSet, Stats, error) {
	if len(records) == 0 {
		return []classify.LabelSet{}, Stats{}, nil
	}

	batchCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	// Buffered so stragglers finishing after the deadline never block a worker.
	done := make(chan outcome, len(records))
	b := d.newBatch(records)

	for i, rec := range records {
		err := d.pool.Submit(batchCtx, d.task(batchCtx, i, rec, done))
		if err != nil {
			if b.submitted == 0 && errors.Is(err, ErrPoolClosed) {
				return nil, Stats{}, err
			}
			d.logger.Warn("stopped submitting classification tasks", "submitted", b.submitted, "total", len(records), "error", err)
			break
		}
		b.submitted++
	}

wait:
	for b.pending() {
		select {
		case o := <-done:
			b.add(o)
		case <-batchCtx.Done():
			break wait
		}
	}
	// Outcomes that arrived before the deadline but lost the select race.
	b.drain(done)

	results, stats := b.finish()
	if stats.TimedOut > 0 {
		d.logger.Warn("classification batch incomplete", "completed", stats.Completed, "failed", stats.Failed, "timed_out", stats.TimedOut, "error", batchCtx.Err())
	}
	return results, stats, nil
}

// batch accumulates the outcomes of one ClassifyAll call. It is only
// touched by the collecting goroutine.
type batch struct {
	records   []types.TextRecord
	results   []classify.LabelSet
	stats     Stats
	submitted int
	received  int
	logger    *slog.Logger
}

func (d *Dispatcher) newBatch(records []types.TextRecord) *batch {
	return &batch{
		records: records,
		results: make([]classify.LabelSet, len(records)),
		logger:  d.logger,
	}
}

func (b *batch) pending() bool { return b.received < b.submitted }

func (b *batch) add(o outcome) {
	b.received++
	switch {
	case o.err != nil:
		b.stats.Failed++
		b.logger.Error("classification task failed", "index", o.index, "position", b.records[o.index].Position, "error", o.err)
	case o.labels != nil:
		b.results[o.index] = o.labels
		b.stats.Completed++
	}
}

// drain collects every outcome already buffered in done without blocking.
func (b *batch) drain(done <-chan outcome) {
	for b.pending() {
		select {
		case o := <-done:
			b.add(o)
		default:
			return
		}
	}
}

// finish fills unfinished records with empty sets and counts them as timed out.
func (b *batch) finish() ([]classify.LabelSet, Stats) {
	for i := range b.results {
		if b.results[i] == nil {
			b.results[i] = classify.LabelSet{}
		}
	}
	b.stats.TimedOut = len(b.records) - b.stats.Completed - b.stats.Failed
	return b.results, b.stats
}

// task builds the closure run on the pool for record i. Tasks whose batch
// already ended are skipped without classifying.
func (d *Dispatcher) task(ctx context.Context, i int, rec types.TextRecord, done chan<- outcome) func() {
	return func() {
		if ctx.Err() != nil {
			done <- outcome{index: i}
			return
		}
		done <- d.classifyOne(i, rec)
	}
}

func (d *Dispatcher) classifyOne(i int, rec types.TextRecord) (o outcome) {
	o.index = i
	defer func() {
		if r := recover(); r != nil {
			o.labels = nil
			o.err = fmt.Errorf("classifier panic: %v", r)
		}
	}()
	o.labels = d.classifier.Classify(rec)
	if o.labels == nil {
		o.labels = classify.LabelSet{}
	}
	return o
}
