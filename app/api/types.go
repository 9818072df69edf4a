package api

import (
	"context"

	"github.com/lysyi3m/compare-sitemaps/app/database"
	"github.com/lysyi3m/compare-sitemaps/app/sitemap"
	"github.com/lysyi3m/compare-sitemaps/app/tasks"
)

type RunnerInterface interface {
	Run(ctx context.Context) (*sitemap.Result, error)
}

var _ RunnerInterface = (*tasks.Runner)(nil)

type RunHistoryInterface interface {
	LatestRun(ctx context.Context) (*database.RunSummary, error)
}

var _ RunHistoryInterface = (*database.RunRepository)(nil)

type Handler struct {
	outputDir  string
	indexFile  string
	categories []string
	runner     RunnerInterface
	history    RunHistoryInterface // nil when run history is disabled
}
