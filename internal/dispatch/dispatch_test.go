// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/serp-analyzer/internal/classify"
	"github.com/pdiddy/serp-analyzer/internal/taxonomy"
	"github.com/pdiddy/serp-analyzer/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPool(t *testing.T, workers int) *Pool {
	t.Helper()
	p := NewPool(PoolConfig{Workers: workers, QueueSize: 256, Logger: quietLogger()})
	t.Cleanup(p.Close)
	return p
}

// --- mock classifiers ---

type funcClassifier func(types.TextRecord) classify.LabelSet

func (f funcClassifier) Classify(r types.TextRecord) classify.LabelSet { return f(r) }

func sampleRecords(n int) []types.TextRecord {
	titles := []string{
		"Abstract and results of a survey",
		"A novel methodology for training",
		"Neural network architecture design",
		"Ablation study on benchmark datasets",
		"Weather is sunny",
		"Future work and limitations",
		"Implementation details and source code",
	}
	records := make([]types.TextRecord, n)
	for i := range records {
		records[i] = types.TextRecord{
			Title:    titles[i%len(titles)],
			Snippet:  fmt.Sprintf("snippet %d", i),
			Position: i + 1,
		}
	}
	return records
}

// --- Pool ---

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := newTestPool(t, 4)
	assert.Equal(t, 4, p.Size())

	var ran int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(context.Background(), func() {
			defer wg.Done()
			atomic.AddInt32(&ran, 1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(50), atomic.LoadInt32(&ran))
}

func TestPoolSurvivesPanickingTask(t *testing.T) {
	p := newTestPool(t, 1)

	require.NoError(t, p.Submit(context.Background(), func() { panic("boom") }))

	done := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive panicking task")
	}
}

func TestPoolSubmitAfterClose(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 2, Logger: quietLogger()})
	p.Close()
	p.Close()

	err := p.Submit(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPoolSubmitBlocksWhenQueueFull(t *testing.T) {
	p := NewPool(PoolConfig{Workers: 1, QueueSize: 1, Logger: quietLogger()})
	release := make(chan struct{})
	defer p.Close()
	defer close(release)

	started := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), func() {
		close(started)
		<-release
	}))
	<-started
	require.NoError(t, p.Submit(context.Background(), func() {}))
	assert.Equal(t, 1, p.QueueDepth())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Submit(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// --- Dispatcher ---

func TestClassifyAllMatchesSequential(t *testing.T) {
	c := classify.Default()
	d := NewDispatcher(newTestPool(t, 10), c, time.Minute, quietLogger())
	records := sampleRecords(100)

	got, stats, err := d.ClassifyAll(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, got, len(records))

	for i, rec := range records {
		assert.Equal(t, c.Classify(rec), got[i], "record %d", i)
	}
	assert.Equal(t, Stats{Completed: 100}, stats)
}

func TestClassifyAllEmpty(t *testing.T) {
	d := NewDispatcher(newTestPool(t, 2), classify.Default(), 0, quietLogger())
	got, stats, err := d.ClassifyAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, Stats{}, stats)
}

func TestClassifyAllRecoversTaskPanic(t *testing.T) {
	c := funcClassifier(func(r types.TextRecord) classify.LabelSet {
		if r.Title == "boom" {
			panic("classifier exploded")
		}
		return classify.LabelSet{taxonomy.Results: {}}
	})
	d := NewDispatcher(newTestPool(t, 3), c, time.Minute, quietLogger())

	records := []types.TextRecord{
		{Title: "ok", Position: 1},
		{Title: "boom", Position: 2},
		{Title: "ok", Position: 3},
	}
	got, stats, err := d.ClassifyAll(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, Stats{Completed: 2, Failed: 1}, stats)
	assert.True(t, got[0].Has(taxonomy.Results))
	assert.Empty(t, got[1])
	assert.True(t, got[2].Has(taxonomy.Results))
}

func TestClassifyAllTimeoutDegradesToEmpty(t *testing.T) {
	release := make(chan struct{})
	c := funcClassifier(func(r types.TextRecord) classify.LabelSet {
		if r.Title == "slow" {
			<-release
		}
		return classify.LabelSet{taxonomy.Methodology: {}}
	})
	pool := NewPool(PoolConfig{Workers: 2, Logger: quietLogger()})
	defer pool.Close()
	defer close(release)

	d := NewDispatcher(pool, c, 50*time.Millisecond, quietLogger())
	records := []types.TextRecord{
		{Title: "fast", Position: 1},
		{Title: "slow", Position: 2},
		{Title: "fast", Position: 3},
		{Title: "fast", Position: 4},
	}

	start := time.Now()
	got, stats, err := d.ClassifyAll(context.Background(), records)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.Equal(t, Stats{Completed: 3, TimedOut: 1}, stats)
	assert.Empty(t, got[1])
	assert.NotNil(t, got[1])
	for _, i := range []int{0, 2, 3} {
		assert.True(t, got[i].Has(taxonomy.Methodology), "record %d", i)
	}
}

func TestClassifyAllCancelledContext(t *testing.T) {
	d := NewDispatcher(newTestPool(t, 2), classify.Default(), time.Minute, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, stats, err := d.ClassifyAll(ctx, sampleRecords(5))
	require.NoError(t, err)
	require.Len(t, got, 5)
	for _, s := range got {
		assert.Empty(t, s)
	}
	assert.Equal(t, 0, stats.Completed)
	assert.Equal(t, 5, stats.TimedOut)
}

func TestClassifyAllClosedPool(t *testing.T) {
	pool := NewPool(PoolConfig{Workers: 1, Logger: quietLogger()})
	pool.Close()

	d := NewDispatcher(pool, classify.Default(), time.Minute, quietLogger())
	_, _, err := d.ClassifyAll(context.Background(), sampleRecords(3))
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestClassifyAllConcurrentBatchesShareOnePool(t *testing.T) {
	c := classify.Default()
	d := NewDispatcher(newTestPool(t, 4), c, time.Minute, quietLogger())
	records := sampleRecords(40)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for b := 0; b < 8; b++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, stats, err := d.ClassifyAll(context.Background(), records)
			if err != nil {
				errs <- err
				return
			}
			if stats.Completed != len(records) {
				errs <- fmt.Errorf("completed = %d, want %d", stats.Completed, len(records))
				return
			}
			for i, rec := range records {
				if len(got[i]) != len(c.Classify(rec)) {
					errs <- fmt.Errorf("record %d label count mismatch", i)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestBatchDrainKeepsBufferedOutcomes(t *testing.T) {
	d := NewDispatcher(newTestPool(t, 1), classify.Default(), 0, quietLogger())
	records := sampleRecords(3)
	b := d.newBatch(records)
	b.submitted = 3

	// Two tasks finished before the deadline; the third never reported.
	done := make(chan outcome, 3)
	done <- outcome{index: 0, labels: classify.LabelSet{taxonomy.Abstract: {}}}
	done <- outcome{index: 2, err: fmt.Errorf("classifier panic: boom")}

	b.drain(done)
	results, stats := b.finish()

	assert.True(t, results[0].Has(taxonomy.Abstract))
	assert.Empty(t, results[1])
	assert.Empty(t, results[2])
	assert.Equal(t, Stats{Completed: 1, Failed: 1, TimedOut: 1}, stats)
	assert.Len(t, done, 0)
}

func TestBatchDrainStopsWhenAllReceived(t *testing.T) {
	d := NewDispatcher(newTestPool(t, 1), classify.Default(), 0, quietLogger())
	b := d.newBatch(sampleRecords(1))
	b.submitted = 1

	done := make(chan outcome, 2)
	done <- outcome{index: 0, labels: classify.LabelSet{}}
	done <- outcome{index: 0, labels: classify.LabelSet{taxonomy.Results: {}}}

	b.drain(done)
	assert.Equal(t, 1, b.received)
	assert.Len(t, done, 1, "drain must not read past the submitted count")
}
