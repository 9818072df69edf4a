package sitemap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lysyi3m/compare-sitemaps/app/catalog"
)

const DefaultMaxURLsPerFile = 45000

var DefaultLanguages = []string{"en", "fr", "es"}

type Options struct {
	BaseURL        string
	IndexFile      string
	MaxURLsPerFile int
	Languages      []string
	Alternates     bool
	Location       *time.Location
}

type WrittenFile struct {
	Category string
	Language string
	Index    int
	Name     string
	URLs     int
}

type CategoryResult struct {
	Category string
	Records  int
	Skipped  int
	Filtered int
	Names    int
	Pairs    int
	Files    []WrittenFile
}

type Result struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Categories []CategoryResult
	IndexFile  string
}

func (r *Result) FileCount() int {
	count := 0
	for _, c := range r.Categories {
		count += len(c.Files)
	}
	return count
}

func (r *Result) URLCount() int {
	count := 0
	for _, c := range r.Categories {
		for _, f := range c.Files {
			count += f.URLs
		}
	}
	return count
}

type Generator struct {
	categories []catalog.Category
	matchers   map[string]*Matcher
	fetcher    Fetcher
	writer     *Writer
	recorder   RunRecorder
	opts       Options
	now        func() time.Time
}

// NewGenerator wires a generator for the categories in their configured
// order. recorder may be nil.
func NewGenerator(categories []catalog.Category, fetcher Fetcher, writer *Writer, recorder RunRecorder, opts Options) *Generator {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.MaxURLsPerFile <= 0 {
		opts.MaxURLsPerFile = DefaultMaxURLsPerFile
	}
	if len(opts.Languages) == 0 {
		opts.Languages = DefaultLanguages
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	matchers := make(map[string]*Matcher)
	for _, category := range categories {
		if category.Filtered() {
			matchers[category.Name] = NewMatcher(category.Filter.Threshold, category.References)
		}
	}

	return &Generator{
		categories: categories,
		matchers:   matchers,
		fetcher:    fetcher,
		writer:     writer,
		recorder:   recorder,
		opts:       opts,
		now:        time.Now,
	}
}

// Run builds every category in order and then the index. The first failure
// stops the run: files already written stay on disk and no index is written.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	result := &Result{StartedAt: g.now()}
	runID := g.startRun(ctx, result.StartedAt)

	err := g.run(ctx, runID, result)
	result.FinishedAt = g.now()
	g.finishRun(ctx, runID, result.FinishedAt, err)

	if err != nil {
		slog.Error("Sitemap generation failed",
			"error", err,
			"files", result.FileCount(),
			"duration", result.FinishedAt.Sub(result.StartedAt))
		return result, err
	}

	slog.Info("Sitemap generation completed",
		"categories", len(result.Categories),
		"files", result.FileCount(),
		"urls", result.URLCount(),
		"index", result.IndexFile,
		"duration", result.FinishedAt.Sub(result.StartedAt))

	return result, nil
}

func (g *Generator) run(ctx context.Context, runID int64, result *Result) error {
	date := generationDate(result.StartedAt, g.opts.Location)

	for _, category := range g.categories {
		if err := ctx.Err(); err != nil {
			return err
		}

		categoryResult, err := g.generateCategory(ctx, runID, category, date)
		result.Categories = append(result.Categories, categoryResult)
		if err != nil {
			return fmt.Errorf("category %s: %w", category.Name, err)
		}
	}

	var entries []IndexEntry
	for _, c := range result.Categories {
		for _, f := range c.Files {
			entries = append(entries, IndexEntry{
				Loc:     fmt.Sprintf("%s/sitemaps/%s", g.opts.BaseURL, f.Name),
				LastMod: date,
			})
		}
	}

	if err := g.writer.WriteIndex(g.opts.IndexFile, entries); err != nil {
		return err
	}
	result.IndexFile = g.opts.IndexFile

	slog.Debug("Sitemap index written", "path", g.opts.IndexFile, "entries", len(entries))
	return nil
}

func (g *Generator) generateCategory(ctx context.Context, runID int64, category catalog.Category, date time.Time) (CategoryResult, error) {
	result := CategoryResult{Category: category.Name}

	records, err := g.fetcher.FetchAll(ctx, category.Endpoint)
	if err != nil {
		return result, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	result.Records = len(records)

	names := g.collectNames(category, records, &result)
	pairs := Combinations(names)
	result.Names = len(names)
	result.Pairs = len(pairs)

	for _, language := range g.opts.Languages {
		files, err := g.writeStream(ctx, runID, category.Name, language, pairs, date)
		result.Files = append(result.Files, files...)
		if err != nil {
			return result, err
		}
	}

	slog.Info("Category completed",
		"category", category.Name,
		"records", result.Records,
		"skipped", result.Skipped,
		"filtered", result.Filtered,
		"names", result.Names,
		"pairs", result.Pairs,
		"files", len(result.Files))

	return result, nil
}

func (g *Generator) collectNames(category catalog.Category, records []catalog.Record, result *CategoryResult) []string {
	matcher := g.matchers[category.Name]
	seen := make(map[string]struct{}, len(records))
	names := make([]string, 0, len(records))

	for _, record := range records {
		name, err := NormalizeName(record, category)
		if err != nil {
			slog.Warn("Skipping record without name", "category", category.Name, "id", record.ID, "error", err)
			result.Skipped++
			continue
		}

		if matcher != nil && !matcher.Retain(name) {
			slog.Debug("Record filtered out", "category", category.Name, "id", record.ID, "name", name)
			result.Filtered++
			continue
		}

		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}

// writeStream emits every sitemap file of one (category, language) stream.
// The open file is always flushed on the way out, including after a failure.
func (g *Generator) writeStream(ctx context.Context, runID int64, category, language string, pairs []Pair, date time.Time) (written []WrittenFile, err error) {
	acc := NewAccumulator(category, language)

	defer func() {
		file, _, ok := Drain(acc)
		if !ok {
			return
		}

		wf, werr := g.writeFile(ctx, runID, file)
		if werr != nil {
			err = errors.Join(err, werr)
			return
		}
		written = append(written, wf)
	}()

	batch := g.opts.MaxURLsPerFile
	for start := 0; start < len(pairs); start += batch {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		end := min(start+batch, len(pairs))
		entries := make([]URLEntry, 0, end-start)
		for _, pair := range pairs[start:end] {
			entries = append(entries, g.newEntry(category, language, pair, date))
		}

		var files []File
		files, acc = Accumulate(acc, entries, g.opts.MaxURLsPerFile)

		for _, file := range files {
			wf, err := g.writeFile(ctx, runID, file)
			if err != nil {
				return written, err
			}
			written = append(written, wf)
		}
	}

	return written, nil
}

func (g *Generator) writeFile(ctx context.Context, runID int64, file File) (WrittenFile, error) {
	path, err := g.writer.WriteFile(file)
	if err != nil {
		return WrittenFile{}, err
	}

	wf := WrittenFile{
		Category: file.Category,
		Language: file.Language,
		Index:    file.Index,
		Name:     file.Name(),
		URLs:     len(file.Entries),
	}

	slog.Debug("Sitemap file written", "category", wf.Category, "language", wf.Language, "file", path, "urls", wf.URLs)

	if g.recorder != nil && runID != 0 {
		if err := g.recorder.RecordFile(ctx, runID, wf); err != nil {
			slog.Warn("Failed to record sitemap file", "file", wf.Name, "error", err)
		}
	}

	return wf, nil
}

func (g *Generator) newEntry(category, language string, pair Pair, date time.Time) URLEntry {
	entry := URLEntry{
		Loc:      g.pageURL(category, language, pair),
		LastMod:  date,
		Priority: DefaultPriority,
	}

	if g.opts.Alternates {
		entry.Alternates = make([]Alternate, 0, len(g.opts.Languages))
		for _, lang := range g.opts.Languages {
			entry.Alternates = append(entry.Alternates, Alternate{
				Language: lang,
				Href:     g.pageURL(category, lang, pair),
			})
		}
	}

	return entry
}

func (g *Generator) pageURL(category, language string, pair Pair) string {
	return fmt.Sprintf("%s/%s/%s/compare/%s", g.opts.BaseURL, language, category, pair.Slug())
}

func (g *Generator) startRun(ctx context.Context, startedAt time.Time) int64 {
	if g.recorder == nil {
		return 0
	}

	runID, err := g.recorder.StartRun(ctx, startedAt)
	if err != nil {
		slog.Warn("Failed to record run start", "error", err)
		return 0
	}
	return runID
}

func (g *Generator) finishRun(ctx context.Context, runID int64, finishedAt time.Time, runErr error) {
	if g.recorder == nil || runID == 0 {
		return
	}

	if err := g.recorder.FinishRun(context.WithoutCancel(ctx), runID, finishedAt, runErr); err != nil {
		slog.Warn("Failed to record run result", "run_id", runID, "error", err)
	}
}

func generationDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
