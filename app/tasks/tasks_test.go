package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/compare-sitemaps/app/sitemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	calls   atomic.Int32
	release chan struct{}
	entered chan struct{}
	err     error
}

func (g *fakeGenerator) Run(ctx context.Context) (*sitemap.Result, error) {
	g.calls.Add(1)
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	if g.err != nil {
		return nil, g.err
	}
	return &sitemap.Result{}, nil
}

func TestRunnerRejectsConcurrentRuns(t *testing.T) {
	gen := &fakeGenerator{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	runner := NewRunner(gen)

	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(context.Background())
		done <- err
	}()

	<-gen.entered

	_, err := runner.Run(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(gen.release)
	require.NoError(t, <-done)

	gen.release = nil
	gen.entered = nil
	_, err = runner.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(2), gen.calls.Load())
}

func TestGenerateTask(t *testing.T) {
	gen := &fakeGenerator{}
	task := NewGenerateTask(NewRunner(gen))

	assert.Equal(t, TaskTypeGenerateSitemaps, task.GetType())
	assert.NotEmpty(t, task.GetID())
	assert.Zero(t, task.GetDuration())

	task.Start()
	require.NoError(t, task.Execute(context.Background()))
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestGenerateTaskPropagatesFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("fetch failed")}
	task := NewGenerateTask(NewRunner(gen))

	assert.EqualError(t, task.Execute(context.Background()), "fetch failed")
}

func TestGenerateTaskCancelled(t *testing.T) {
	gen := &fakeGenerator{}
	task := NewGenerateTask(NewRunner(gen))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, task.Execute(ctx), context.Canceled)
	assert.Zero(t, gen.calls.Load())
}

func TestSchedulerRunsPeriodically(t *testing.T) {
	gen := &fakeGenerator{}
	scheduler := NewScheduler(NewRunner(gen), 10*time.Millisecond)

	scheduler.Start()
	assert.Eventually(t, func() bool {
		return gen.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
	scheduler.Stop()

	calls := gen.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, gen.calls.Load(), "no runs after Stop")

	assert.Error(t, scheduler.EnqueueTask(NewGenerateTask(NewRunner(gen))))
}
