package tasks

import "time"

// Config tunes the maintenance task queue. Per-task retry behavior lives on
// each queue's QueueConfig; this only covers the shared worker pool and the
// completed-task log.
type Config struct {
	// Workers is the number of concurrent task workers.
	Workers int

	// ReleaseAfter is how long a claimed task may run before it is released
	// back to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed tasks are cleaned up.
	CleanupInterval time.Duration

	// RetentionDuration is how long completed tasks stay queryable for the
	// admin status endpoint.
	RetentionDuration time.Duration
}

// DefaultConfig returns the tuning used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}
