package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the serve command to regenerate sitemaps in the background.
// Example usage:
//
//	scheduler := NewScheduler(runner, time.Hour)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewGenerateTask(runner))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
