package tasks

import (
	"context"
	"errors"
	"sync"

	"github.com/lysyi3m/compare-sitemaps/app/sitemap"
)

var ErrRunInProgress = errors.New("sitemap generation already in progress")

type Generator interface {
	Run(ctx context.Context) (*sitemap.Result, error)
}

var _ Generator = (*sitemap.Generator)(nil)

// Runner lets one generation run at a time across the CLI, API and scheduler.
type Runner struct {
	generator Generator
	mu        sync.Mutex
}

func NewRunner(generator Generator) *Runner {
	return &Runner{generator: generator}
}

// Run returns ErrRunInProgress instead of waiting when another run holds the lock.
func (r *Runner) Run(ctx context.Context) (*sitemap.Result, error) {
	if !r.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.mu.Unlock()

	return r.generator.Run(ctx)
}
