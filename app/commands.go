package main

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lysyi3m/compare-sitemaps/app/api"
	"github.com/lysyi3m/compare-sitemaps/app/catalog"
	"github.com/lysyi3m/compare-sitemaps/app/cfg"
	"github.com/lysyi3m/compare-sitemaps/app/database"
	"github.com/lysyi3m/compare-sitemaps/app/sitemap"
	"github.com/lysyi3m/compare-sitemaps/app/tasks"
)

type app struct {
	catalogCfg *catalog.Config
	generator  *sitemap.Generator
	history    *database.RunRepository // nil when run history is disabled
	db         *database.DB
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// newApp loads the catalog configuration before touching the network or the
// output directory.
func newApp(appCfg *cfg.Cfg) (*app, error) {
	catalogCfg, err := catalog.NewLoader(appCfg.CatalogConfig).Load()
	if err != nil {
		return nil, err
	}
	slog.Info("Catalog configuration loaded", "path", appCfg.CatalogConfig, "categories", strings.Join(catalogCfg.Names(), ","))

	a := &app{catalogCfg: catalogCfg}

	var recorder sitemap.RunRecorder
	if appCfg.DBPath != "" {
		db, err := database.Open(appCfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open run history: %w", err)
		}
		a.db = db
		a.history = database.NewRunRepository(db)
		recorder = a.history
	}

	a.generator = sitemap.NewGenerator(
		catalogCfg.Categories,
		newCatalogClient(appCfg),
		sitemap.NewWriter(appCfg.OutputDir),
		recorder,
		sitemap.Options{
			BaseURL:        appCfg.BaseUrl,
			IndexFile:      appCfg.IndexFile,
			MaxURLsPerFile: appCfg.MaxURLsPerFile,
			Languages:      appCfg.Languages,
			Alternates:     appCfg.Alternates,
			Location:       appCfg.Location,
		},
	)

	return a, nil
}

func newCatalogClient(appCfg *cfg.Cfg) *catalog.Client {
	return catalog.NewClient(catalog.ClientOptions{
		PageSize:  appCfg.PageSize,
		RateLimit: appCfg.RateLimit,
		Timeout:   appCfg.RequestTimeout,
		UserAgent: appCfg.UserAgent,
	})
}

func runGenerate(ctx context.Context, appCfg *cfg.Cfg) error {
	a, err := newApp(appCfg)
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = tasks.NewRunner(a.generator).Run(ctx)
	return err
}

func runServe(ctx context.Context, appCfg *cfg.Cfg) error {
	a, err := newApp(appCfg)
	if err != nil {
		return err
	}
	defer a.Close()

	runner := tasks.NewRunner(a.generator)

	if appCfg.ScheduleInterval > 0 {
		scheduler := tasks.NewScheduler(runner, appCfg.ScheduleInterval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	var history api.RunHistoryInterface
	if a.history != nil {
		history = a.history
	}

	handler := api.NewHandler(appCfg.OutputDir, appCfg.IndexFile, a.catalogCfg.Names(), runner, history)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "api", appCfg.APIAccessKey != "")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case serveErr = <-serverErrChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return serveErr
}

func runRefs(appCfg *cfg.Cfg) error {
	f, err := os.Open(appCfg.RefsHTML)
	if err != nil {
		return fmt.Errorf("failed to open HTML page: %w", err)
	}
	defer f.Close()

	names, err := catalog.ExtractReferences(f, appCfg.RefsSelector)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: selector %q matched nothing in %s", catalog.ErrNoReferences, appCfg.RefsSelector, appCfg.RefsHTML)
	}

	if appCfg.RefsOutput == "" {
		err = writeLines(os.Stdout, names)
	} else {
		err = writeLinesToFile(appCfg.RefsOutput, names)
	}
	if err != nil {
		return fmt.Errorf("failed to write reference list: %w", err)
	}

	slog.Info("Reference list extracted", "source", appCfg.RefsHTML, "names", len(names), "output", cmp.Or(appCfg.RefsOutput, "stdout"))
	return nil
}

func runDuplicates(ctx context.Context, appCfg *cfg.Cfg) error {
	catalogCfg, err := catalog.NewLoader(appCfg.CatalogConfig).Load()
	if err != nil {
		return err
	}

	category, ok := catalogCfg.Find(appCfg.DuplicatesCategory)
	if !ok {
		return fmt.Errorf("unknown category %q (configured: %s)", appCfg.DuplicatesCategory, strings.Join(catalogCfg.Names(), ", "))
	}

	records, err := newCatalogClient(appCfg).FetchAll(ctx, category.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to fetch %s catalog: %w", category.Name, err)
	}

	groups := catalog.FindDuplicates(records, category.Entity, category.Field)

	redundant := 0
	w := bufio.NewWriter(os.Stdout)
	for _, group := range groups {
		fmt.Fprintf(w, "%s (%d records)\n", group.Name, len(group.Entries))
		keep := group.Keep()
		fmt.Fprintf(w, "  keep    id=%d created=%s\n", keep.ID, formatCreated(keep.CreatedAt))
		for _, entry := range group.Redundant() {
			fmt.Fprintf(w, "  remove  id=%d created=%s\n", entry.ID, formatCreated(entry.CreatedAt))
			redundant++
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	slog.Info("Duplicate report completed",
		"category", category.Name,
		"records", len(records),
		"groups", len(groups),
		"redundant", redundant)

	return nil
}

func writeLines(out io.Writer, lines []string) error {
	w := bufio.NewWriter(out)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return w.Flush()
}

func writeLinesToFile(path string, lines []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := writeLines(file, lines); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.In(time.Local).Format(time.RFC3339)
}
