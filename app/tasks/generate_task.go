package tasks

import (
	"context"
	"errors"
	"log/slog"
)

type GenerateTask struct {
	Task
	runner *Runner
}

func NewGenerateTask(runner *Runner) *GenerateTask {
	return &GenerateTask{
		Task:   NewTask(TaskTypeGenerateSitemaps),
		runner: runner,
	}
}

func (t *GenerateTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.runner.Run(ctx)
	if errors.Is(err, ErrRunInProgress) {
		slog.Debug("Generation already running, skipping scheduled run", "id", t.GetID())
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"files", result.FileCount(),
		"urls", result.URLCount())

	return nil
}
