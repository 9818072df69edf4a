package sitemap

import (
	"context"
	"time"

	"github.com/lysyi3m/compare-sitemaps/app/catalog"
)

// Fetcher returns every record behind a catalog endpoint.
// Implemented by catalog.Client.
type Fetcher interface {
	FetchAll(ctx context.Context, endpoint string) ([]catalog.Record, error)
}

// RunRecorder observes generation runs. It is an audit trail only; the
// generator never reads from it.
type RunRecorder interface {
	StartRun(ctx context.Context, startedAt time.Time) (int64, error)
	RecordFile(ctx context.Context, runID int64, file WrittenFile) error
	FinishRun(ctx context.Context, runID int64, finishedAt time.Time, runErr error) error
}
