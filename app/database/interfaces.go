package database

import (
	"context"

	"github.com/lysyi3m/compare-sitemaps/app/sitemap"
)

type RunStore interface {
	sitemap.RunRecorder

	LatestRun(ctx context.Context) (*RunSummary, error)
	GetRunFiles(ctx context.Context, runID int64) ([]RunFile, error)
}
