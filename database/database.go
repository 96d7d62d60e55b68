// File: /database/database.go
package database

import (
	"fmt"

	"github.com/dariulone/dariulonePosts/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Auto migrate all models
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostLike{},
		&models.PostView{},
		&models.Comment{},
		&models.Follow{},
		&models.Notification{},
	)

	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// Uniqueness and integrity rules the models rely on. Errors are logged and
	// ignored because the constraints already exist after the first run.

	// A user may like a given post at most once
	if err := db.Exec("ALTER TABLE post_likes ADD CONSTRAINT uk_post_likes_post_user UNIQUE (post_id, user_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for post_likes: %v\n", err)
	}

	// One follow row per ordered (follower, followed) pair
	if err := db.Exec("ALTER TABLE follows ADD CONSTRAINT uk_follows_follower_followed UNIQUE (follower_id, followed_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for follows: %v\n", err)
	}

	// No self-follow rows
	if err := db.Exec("ALTER TABLE follows ADD CONSTRAINT ck_follows_no_self_follow CHECK (follower_id != followed_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for follows: %v\n", err)
	}

	// Deleting a post removes its comments and view rows, never the author.
	// post_views carries NO unique (post_id, ip_address) constraint: the 1-hour
	// dedup window is checked in the handler and the check-then-insert race is
	// an accepted limitation.
	if err := db.Exec("ALTER TABLE comments ADD CONSTRAINT fk_comments_post FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE").Error; err != nil {
		fmt.Printf("Warning: Could not add cascade constraint for comments: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE post_views ADD CONSTRAINT fk_post_views_post FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE").Error; err != nil {
		fmt.Printf("Warning: Could not add cascade constraint for post_views: %v\n", err)
	}

	return nil
}

// SeedData can be used to populate the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	testUsers := []models.User{
		{
			Username: "john_doe",
			Email:    "john@example.com",
			Password: "$2a$10$dummy", // This should be properly hashed in real scenarios
			IsActive: true,
		},
		{
			Username: "jane_smith",
			Email:    "jane@example.com",
			Password: "$2a$10$dummy",
			IsActive: true,
		},
	}

	for _, user := range testUsers {
		if err := db.Create(&user).Error; err != nil {
			fmt.Printf("Warning: Could not create test user %s: %v\n", user.Username, err)
		}
	}

	testPosts := []models.Post{
		{
			Title:    "Welcome to dariulonePosts",
			Body:     "First post on the platform. Lorem ipsum dolor sit amet consectetur adipiscing elit.",
			AuthorID: 1,
			Category: "general",
			Tags:     models.StringSlice{"welcome", "meta"},
			Slug:     models.GenerateSlug(),
		},
	}

	for _, post := range testPosts {
		if err := db.Create(&post).Error; err != nil {
			fmt.Printf("Warning: Could not create test post %s: %v\n", post.Title, err)
		}
	}

	fmt.Println("Database seeded with test data")
	return nil
}
