// File: /models/user.go
package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password     string    `json:"-" gorm:"not null;size:255"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	ProfileImage *string   `json:"profile_image"` // Base64 or URL reference
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:AuthorID"`
}

type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"not null;index"`
	FollowedID uint      `json:"followed_id" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `json:"follower" gorm:"foreignKey:FollowerID"`
	Followed User `json:"followed" gorm:"foreignKey:FollowedID"`
}

// UserResponse is the public shape of a user. Email is only populated for
// authenticated callers.
type UserResponse struct {
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email,omitempty"`
	ProfileImage *string `json:"profile_image"`
}

func (u *User) ToResponse(includeEmail bool) UserResponse {
	resp := UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
	}
	if includeEmail {
		resp.Email = u.Email
	}
	return resp
}

// ProfileResponse adds follow counts for the profile page.
type ProfileResponse struct {
	UserResponse
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

// FollowResponse resolves both endpoints of a follow relationship.
type FollowResponse struct {
	ID       uint         `json:"id"`
	Follower UserResponse `json:"follower"`
	Followed UserResponse `json:"followed"`
	Date     time.Time    `json:"date"`
}
