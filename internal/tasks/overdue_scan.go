package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/openshelf/openshelf/internal/entities"
)

// FineAssessor creates fines for overdue borrows.
type FineAssessor interface {
	AssessOverdueFines(dailyRate float64) ([]entities.Fine, error)
}

// Notifier appends user notifications.
type Notifier interface {
	Create(n *entities.Notification) error
}

// OverdueScanTask fines every overdue borrow that has not been fined yet and
// notifies the affected users.
type OverdueScanTask struct {
	DailyRate float64 `json:"dailyRate"`
}

// Config returns the queue configuration for overdue scans.
func (t OverdueScanTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "overdue_scan",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// OverdueScanProcessor creates a processor function for OverdueScanTask.
// The scan itself is idempotent, so a crashed run can simply be re-enqueued.
func OverdueScanProcessor(assessor FineAssessor, notifier Notifier) backlite.QueueProcessor[OverdueScanTask] {
	return func(ctx context.Context, task OverdueScanTask) error {
		if assessor == nil {
			return fmt.Errorf("fine assessor not configured")
		}

		fines, err := assessor.AssessOverdueFines(task.DailyRate)
		if err != nil {
			return fmt.Errorf("assess overdue fines: %w", err)
		}

		for i := range fines {
			fine := fines[i]
			notification := entities.Notification{
				UserID:  fine.UserID,
				Type:    entities.NotificationTypeOverdue,
				Title:   "Overdue book fine",
				Message: fmt.Sprintf("A fine of %.2f was added to your account: %s", fine.Amount, fine.Description),
			}
			if err := notifier.Create(&notification); err != nil {
				// The fine itself is committed; a lost notification is not
				// worth failing and re-fining for.
				log.Printf("[TASK ERROR] overdue notification for user %s: %v", fine.UserID, err)
			}
		}

		log.Printf("[TASK] Overdue scan created %d fine(s)", len(fines))
		return nil
	}
}

// NewOverdueScanQueue creates a backlite queue for overdue scans.
func NewOverdueScanQueue(assessor FineAssessor, notifier Notifier) backlite.Queue {
	return backlite.NewQueue(OverdueScanProcessor(assessor, notifier))
}
