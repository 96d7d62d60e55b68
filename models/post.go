// File: /models/post.go
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	Title     string      `json:"title" gorm:"not null;index;size:255"`
	Body      string      `json:"body" gorm:"type:text;not null"`
	AuthorID  uint        `json:"author_id" gorm:"not null;index"`
	Category  string      `json:"category" gorm:"not null;index;size:100"`
	Tags      StringSlice `json:"tags" gorm:"type:json"`
	Slug      string      `json:"slug" gorm:"uniqueIndex;not null;size:100"`
	MainImage *string     `json:"main_image" gorm:"type:text"`
	Likes     int         `json:"likes" gorm:"default:0"`
	CreatedAt time.Time   `json:"date"`

	// Relationships
	Author   User      `json:"author" gorm:"foreignKey:AuthorID"`
	Comments []Comment `json:"comments" gorm:"foreignKey:PostID"`

	// Derived from post_views on read, never stored.
	ViewsCount int64 `json:"views_count" gorm:"-"`
}

// GenerateSlug builds the unique, URL-safe identifier assigned once at
// creation: a ddmmyy date prefix plus a random UUID.
func GenerateSlug() string {
	return fmt.Sprintf("%s-%s", time.Now().Format("020106"), uuid.New().String())
}

type PostLike struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	PostID uint `json:"post_id" gorm:"not null;index"`
	UserID uint `json:"user_id" gorm:"not null;index"`

	Post Post `json:"post" gorm:"foreignKey:PostID"`
	User User `json:"user" gorm:"foreignKey:UserID"`
}

// PostView is one counted view. Uniqueness per (post, address, 1h window) is
// enforced in the handler, not by a constraint; duplicate rows can appear if
// the dedup check races.
type PostView struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;index:idx_post_views_lookup,priority:1"`
	IPAddress string    `json:"ip_address" gorm:"not null;size:45;index:idx_post_views_lookup,priority:2"`
	Timestamp time.Time `json:"timestamp" gorm:"index:idx_post_views_lookup,priority:3"`

	Post Post `json:"post" gorm:"foreignKey:PostID"`
}

// RelatedPostsResponse pairs a post with others from the same category.
type RelatedPostsResponse struct {
	CurrentPost  RelatedPostSummary   `json:"current_post"`
	RelatedPosts []RelatedPostSummary `json:"related_posts"`
}

type RelatedPostSummary struct {
	Title    string  `json:"title"`
	Slug     string  `json:"slug"`
	Category string  `json:"category"`
	Content  string  `json:"content,omitempty"`
	Image    *string `json:"image,omitempty"`
}
