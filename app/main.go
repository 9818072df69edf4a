package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lysyi3m/compare-sitemaps/app/cfg"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	appCfg, err := cfg.Load()
	if errors.Is(err, cfg.ErrHelp) {
		return
	}
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	closeLog := setupLogging(appCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	slog.Debug("Starting", "command", appCfg.Command, "version", appCfg.Version, "timezone", appCfg.Location)

	var runErr error
	switch appCfg.Command {
	case cfg.CommandServe:
		runErr = runServe(ctx, appCfg)
	case cfg.CommandRefs:
		runErr = runRefs(appCfg)
	case cfg.CommandDuplicates:
		runErr = runDuplicates(ctx, appCfg)
	default:
		runErr = runGenerate(ctx, appCfg)
	}

	stop()

	if runErr != nil {
		slog.Error("Command failed", "command", appCfg.Command, "error", runErr)
		closeLog()
		os.Exit(1)
	}

	closeLog()
}

func setupLogging(appCfg *cfg.Cfg) func() {
	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}

	var out io.Writer = os.Stderr
	closeLog := func() {}

	if appCfg.LogFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   appCfg.LogFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stderr, rotating)
		closeLog = func() { rotating.Close() }
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	return closeLog
}
