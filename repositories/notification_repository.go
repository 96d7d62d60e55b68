// File: /repositories/notification_repository.go
package repositories

import (
	"fmt"
	"time"

	"github.com/dariulone/dariulonePosts/models"
	"gorm.io/gorm"
)

// notificationListLimit caps ListForUser so a long-lived account cannot pull
// an unbounded result set.
const notificationListLimit = 200

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a single notification addressed to one recipient.
func (r *NotificationRepository) Create(notification *models.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// CreateForFollowers fans one post event out to every follower of the author:
// one notification row per follower, all inserted in a single transaction so
// a partial failure notifies nobody instead of a random subset. Returns the
// number of notifications written.
func (r *NotificationRepository) CreateForFollowers(authorID uint, title, description, link string) (int, error) {
	var follows []models.Follow
	if err := r.db.Where("followed_id = ?", authorID).Find(&follows).Error; err != nil {
		return 0, fmt.Errorf("failed to list followers: %w", err)
	}

	if len(follows) == 0 {
		return 0, nil
	}

	notifications := make([]models.Notification, 0, len(follows))
	for _, follow := range follows {
		notifications = append(notifications, models.Notification{
			UserID:      follow.FollowerID,
			Title:       title,
			Description: description,
			Link:        link,
		})
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&notifications).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fan out notifications: %w", err)
	}

	return len(notifications), nil
}

// ListForUser returns the recipient's notifications, most recent first.
func (r *NotificationRepository) ListForUser(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(notificationListLimit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// DeleteForUser bulk-deletes the recipient's notifications. Deleting zero
// rows is not an error.
func (r *NotificationRepository) DeleteForUser(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}

// DeleteOlderThan prunes notifications past the retention window. Used by the
// cleanup job.
func (r *NotificationRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}
