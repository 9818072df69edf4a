package database

import (
	"time"
)

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt *time.Time // nil while running
	Status     RunStatus
	Error      string
}

type RunFile struct {
	ID        int64
	RunID     int64
	Category  string
	Language  string
	Index     int
	Filename  string
	URLCount  int
	CreatedAt time.Time
}

type RunSummary struct {
	Run
	Files int
	URLs  int
}
