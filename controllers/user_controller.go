// File: /controllers/user_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dariulone/dariulonePosts/middleware"
	"github.com/dariulone/dariulonePosts/models"
	"github.com/dariulone/dariulonePosts/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	db                     *gorm.DB
	notificationController *NotificationController
	broadcaster            *services.Broadcaster
}

func NewUserController(db *gorm.DB, notificationController *NotificationController, broadcaster *services.Broadcaster) *UserController {
	return &UserController{
		db:                     db,
		notificationController: notificationController,
		broadcaster:            broadcaster,
	}
}

// GetCurrentUser returns the authenticated caller's own record.
func (uc *UserController) GetCurrentUser(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user.ToResponse(true))
}

// GetUserProfile returns a public profile with follower/following counts.
// Counts are computed from follow rows on every read rather than kept as
// counters on the user row.
func (uc *UserController) GetUserProfile(c *gin.Context) {
	targetID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := uc.db.First(&user, "id = ?", targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var followersCount, followingCount int64
	uc.db.Model(&models.Follow{}).Where("followed_id = ?", targetID).Count(&followersCount)
	uc.db.Model(&models.Follow{}).Where("follower_id = ?", targetID).Count(&followingCount)

	// Email is only exposed to authenticated callers
	_, authenticated := middleware.CurrentUserID(c)

	c.JSON(http.StatusOK, models.ProfileResponse{
		UserResponse:   user.ToResponse(authenticated),
		FollowersCount: followersCount,
		FollowingCount: followingCount,
	})
}

type UpdateProfileRequest struct {
	Username     string  `json:"username" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	ProfileImage *string `json:"profile_image"`
}

// UpdateProfile updates the caller's own username, email and profile image.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Username = req.Username
	user.Email = req.Email
	user.ProfileImage = req.ProfileImage

	if err := uc.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, user.ToResponse(true))
}

// FollowUser creates the directional follow relationship, notifies the
// followed user and signals connected clients.
func (uc *UserController) FollowUser(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	targetID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if userID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	var target models.User
	if err := uc.db.First(&target, "id = ?", targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Check if already following
	var existingFollow models.Follow
	if err := uc.db.Where("follower_id = ? AND followed_id = ?", userID, targetID).First(&existingFollow).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already following this user"})
		return
	}

	follow := models.Follow{
		FollowerID: userID,
		FollowedID: targetID,
	}

	if err := uc.db.Create(&follow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	var follower models.User
	uc.db.First(&follower, "id = ?", userID)

	// Notify the followed user; a failed notification never fails the follow
	if err := uc.notificationController.CreateFollowNotification(&follower, targetID); err != nil {
		fmt.Printf("Failed to create follow notification: %v\n", err)
	}

	uc.broadcaster.Broadcast()

	c.JSON(http.StatusOK, models.FollowResponse{
		ID:       follow.ID,
		Follower: follower.ToResponse(false),
		Followed: target.ToResponse(false),
		Date:     follow.CreatedAt,
	})
}

// UnfollowUser removes the relationship and returns its historical data.
// No notification is emitted on unfollow.
func (uc *UserController) UnfollowUser(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	targetID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if userID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot unfollow yourself"})
		return
	}

	var follow models.Follow
	if err := uc.db.Where("follower_id = ? AND followed_id = ?", userID, targetID).First(&follow).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not following this user"})
		return
	}

	if err := uc.db.Delete(&follow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}

	var follower, followed models.User
	uc.db.First(&follower, "id = ?", follow.FollowerID)
	uc.db.First(&followed, "id = ?", follow.FollowedID)

	c.JSON(http.StatusOK, models.FollowResponse{
		ID:       follow.ID,
		Follower: follower.ToResponse(false),
		Followed: followed.ToResponse(false),
		Date:     follow.CreatedAt,
	})
}

// IsFollowing reports whether the caller follows the target. Self always
// reads as false.
func (uc *UserController) IsFollowing(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	targetID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if userID == targetID {
		c.JSON(http.StatusOK, false)
		return
	}

	var count int64
	uc.db.Model(&models.Follow{}).Where("follower_id = ? AND followed_id = ?", userID, targetID).Count(&count)

	c.JSON(http.StatusOK, count > 0)
}

// GetFollowers lists the users following the caller.
func (uc *UserController) GetFollowers(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var follows []models.Follow
	if err := uc.db.Preload("Follower").Where("followed_id = ?", userID).Find(&follows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get followers"})
		return
	}

	followers := make([]models.UserResponse, 0, len(follows))
	for _, follow := range follows {
		followers = append(followers, follow.Follower.ToResponse(false))
	}

	c.JSON(http.StatusOK, followers)
}

// GetFollowing lists the users the caller follows.
func (uc *UserController) GetFollowing(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var follows []models.Follow
	if err := uc.db.Preload("Followed").Where("follower_id = ?", userID).Find(&follows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get following"})
		return
	}

	following := make([]models.UserResponse, 0, len(follows))
	for _, follow := range follows {
		following = append(following, follow.Followed.ToResponse(false))
	}

	c.JSON(http.StatusOK, following)
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
