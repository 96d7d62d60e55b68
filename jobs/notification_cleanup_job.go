// File: /jobs/notification_cleanup_job.go
package jobs

import (
	"fmt"
	"time"

	"github.com/dariulone/dariulonePosts/repositories"
	"gorm.io/gorm"
)

// NotificationCleanupJob periodically prunes notifications past the retention
// window so the table does not grow without bound.
type NotificationCleanupJob struct {
	repo      *repositories.NotificationRepository
	retention time.Duration
	ticker    *time.Ticker
	done      chan bool
}

// NewNotificationCleanupJob creates a new cleanup job
func NewNotificationCleanupJob(db *gorm.DB, interval, retention time.Duration) *NotificationCleanupJob {
	return &NotificationCleanupJob{
		repo:      repositories.NewNotificationRepository(db),
		retention: retention,
		ticker:    time.NewTicker(interval),
		done:      make(chan bool),
	}
}

// Start begins the cleanup job
func (j *NotificationCleanupJob) Start() {
	fmt.Println("Notification cleanup job started")

	go func() {
		// Run immediately on start
		j.cleanup()

		// Then run on schedule
		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				fmt.Println("Notification cleanup job stopped")
				return
			}
		}
	}()
}

// Stop stops the cleanup job
func (j *NotificationCleanupJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *NotificationCleanupJob) cleanup() {
	cutoff := time.Now().Add(-j.retention)

	pruned, err := j.repo.DeleteOlderThan(cutoff)
	if err != nil {
		fmt.Printf("Error during notification cleanup: %v\n", err)
		return
	}

	if pruned > 0 {
		fmt.Printf("Notification cleanup removed %d old notifications\n", pruned)
	}
}
