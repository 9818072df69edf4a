package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

// ErrHelp is returned when help output was requested and printed.
var ErrHelp = errors.New("help requested")

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Generation
	BaseUrl        string   `long:"base-url" env:"BASE_URL" description:"Public site URL used in every sitemap loc (e.g., https://example.com)"`
	OutputDir      string   `long:"output-dir" env:"OUTPUT_DIR" default:"./public/sitemaps" description:"Directory for generated sitemap files"`
	IndexFile      string   `long:"index-file" env:"INDEX_FILE" default:"./public/sitemap-index.xml" description:"Path of the sitemap index file"`
	MaxURLsPerFile int      `long:"max-urls" env:"MAX_URLS_PER_FILE" default:"45000" description:"Maximum URLs per sitemap file"`
	Languages      []string `long:"language" env:"LANGUAGES" env-delim:"," default:"en" default:"fr" default:"es" description:"Language code; repeat for several languages"`
	CatalogConfig  string   `long:"catalog-config" env:"CATALOG_CONFIG" default:"./catalog.yml" description:"YAML file listing the catalogs to generate"`
	Alternates     bool     `long:"alternates" env:"ALTERNATES" description:"Add xhtml:link hreflang alternates to every URL"`

	// Catalog API
	PageSize       int           `long:"page-size" env:"PAGE_SIZE" default:"100" description:"Records requested per catalog page"`
	RateLimit      float64       `long:"rate-limit" env:"RATE_LIMIT" default:"5" description:"Catalog requests per second (0 disables limiting)"`
	RequestTimeout time.Duration `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"30s" description:"Timeout for a single catalog request"`
	UserAgent      string        `long:"user-agent" env:"USER_AGENT" default:"Compare-Sitemaps/1.0" description:"User agent string for catalog requests"`

	// Run history
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/runs.db" description:"SQLite run history database (empty disables)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" description:"Timezone for lastmod dates (e.g., UTC, Europe/Paris)"`
	LogFile  string `long:"log-file" env:"LOG_FILE" description:"Also write logs to this file, rotated"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Generate struct{} `command:"generate" description:"Generate sitemap files and the sitemap index (default)"`

	Serve struct {
		Port             string        `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
		APIAccessKey     string        `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for POST /api/generate (optional)"`
		ScheduleInterval time.Duration `long:"schedule-interval" env:"SCHEDULE_INTERVAL" default:"0s" description:"Regenerate periodically (0 disables)"`
	} `command:"serve" description:"Serve generated sitemaps over HTTP"`

	Refs struct {
		HTML     string `long:"html" required:"true" description:"Saved vendor ranking page"`
		Selector string `long:"selector" default:"p.Item__name___QfnBy" description:"CSS selector of the name nodes"`
		Output   string `long:"output" description:"Write the reference list here instead of stdout"`
	} `command:"refs" description:"Extract a reference list from a saved HTML ranking page"`

	Duplicates struct {
		Category string `long:"category" required:"true" description:"Catalog category name from the catalog config"`
	} `command:"duplicates" description:"Report catalog records sharing the same name"`
}

// Load parses os.Args and the environment. It returns ErrHelp after printing
// help output.
func Load() (*Cfg, error) {
	return parse(os.Args[1:])
}

func parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.SubcommandsOptional = true

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, ErrHelp
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	command := CommandGenerate
	if parser.Active != nil {
		command = Command(parser.Active.Name)
	}

	cfg := &Cfg{
		Command:            command,
		BaseUrl:            raw.BaseUrl,
		OutputDir:          raw.OutputDir,
		IndexFile:          raw.IndexFile,
		MaxURLsPerFile:     raw.MaxURLsPerFile,
		Languages:          raw.Languages,
		CatalogConfig:      raw.CatalogConfig,
		Alternates:         raw.Alternates,
		PageSize:           raw.PageSize,
		RateLimit:          raw.RateLimit,
		RequestTimeout:     raw.RequestTimeout,
		UserAgent:          raw.UserAgent,
		DBPath:             raw.DBPath,
		Port:               raw.Serve.Port,
		APIAccessKey:       raw.Serve.APIAccessKey,
		ScheduleInterval:   raw.Serve.ScheduleInterval,
		RefsHTML:           raw.Refs.HTML,
		RefsSelector:       raw.Refs.Selector,
		RefsOutput:         raw.Refs.Output,
		DuplicatesCategory: raw.Duplicates.Category,
		Timezone:           raw.Timezone,
		LogFile:            raw.LogFile,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := validateCfg(cfg); err != nil {
		return nil, err
	}

	loc, err := applyTimezone(cfg.Timezone)
	if err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
		loc = time.Local
	}
	cfg.Location = loc

	return cfg, nil
}

func validateCfg(cfg *Cfg) error {
	if err := validator.New().Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			e := validationErrors[0]
			return fmt.Errorf("invalid configuration: %s failed on '%s' rule", e.Namespace(), e.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func applyTimezone(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}

	time.Local = loc
	return loc, nil
}
