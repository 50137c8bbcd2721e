package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// NotificationPurger deletes notifications whose expiry passed before the cutoff.
type NotificationPurger interface {
	PurgeExpired(cutoff time.Time) (int64, error)
}

// PurgeNotificationsTask removes expired notifications older than Retention.
type PurgeNotificationsTask struct {
	Retention time.Duration `json:"retention"`
}

// Config returns the queue configuration for notification purges.
func (t PurgeNotificationsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "purge_notifications",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PurgeNotificationsProcessor creates a processor function for PurgeNotificationsTask.
func PurgeNotificationsProcessor(purger NotificationPurger) backlite.QueueProcessor[PurgeNotificationsTask] {
	return func(ctx context.Context, task PurgeNotificationsTask) error {
		if purger == nil {
			return fmt.Errorf("notification purger not configured")
		}

		deleted, err := purger.PurgeExpired(time.Now().Add(-task.Retention))
		if err != nil {
			return fmt.Errorf("purge notifications: %w", err)
		}

		log.Printf("[TASK] Purged %d expired notification(s)", deleted)
		return nil
	}
}

// NewPurgeNotificationsQueue creates a backlite queue for notification purges.
func NewPurgeNotificationsQueue(purger NotificationPurger) backlite.Queue {
	return backlite.NewQueue(PurgeNotificationsProcessor(purger))
}
