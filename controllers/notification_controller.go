// File: /controllers/notification_controller.go
package controllers

import (
	"fmt"
	"net/http"

	"github.com/dariulone/dariulonePosts/middleware"
	"github.com/dariulone/dariulonePosts/models"
	"github.com/dariulone/dariulonePosts/repositories"
	"github.com/dariulone/dariulonePosts/services"
	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	repo        *repositories.NotificationRepository
	broadcaster *services.Broadcaster
}

func NewNotificationController(repo *repositories.NotificationRepository, broadcaster *services.Broadcaster) *NotificationController {
	return &NotificationController{
		repo:        repo,
		broadcaster: broadcaster,
	}
}

// GetNotifications returns the caller's notifications, most recent first.
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	notifications, err := nc.repo.ListForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}

	c.JSON(http.StatusOK, notifications)
}

// ClearNotifications bulk-deletes the caller's notifications. Clearing an
// empty inbox succeeds.
func (nc *NotificationController) ClearNotifications(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := nc.repo.DeleteForUser(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear notifications"})
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateNotification creates one notification addressed to the caller.
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req models.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification := models.Notification{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
	}

	if err := nc.repo.Create(&notification); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	nc.broadcaster.Broadcast()

	c.JSON(http.StatusOK, notification)
}

// CreateFollowNotification tells a user that someone started following them.
func (nc *NotificationController) CreateFollowNotification(follower *models.User, targetUserID uint) error {
	return nc.repo.Create(&models.Notification{
		UserID:      targetUserID,
		Title:       "New follower",
		Description: fmt.Sprintf("%s started following you.", follower.Username),
		Link:        fmt.Sprintf("/profile/%d", follower.ID),
	})
}

// NotifyFollowers fans a freshly published post out to every follower of its
// author: one notification per follower, inserted in a single transaction.
// Returns how many followers were notified.
func (nc *NotificationController) NotifyFollowers(author *models.User, post *models.Post) (int, error) {
	return nc.repo.CreateForFollowers(
		author.ID,
		fmt.Sprintf("%s published a new post", author.Username),
		post.Title,
		fmt.Sprintf("/posts/%s", post.Slug),
	)
}
