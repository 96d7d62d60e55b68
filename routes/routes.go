// File: /routes/routes.go
package routes

import (
	"github.com/dariulone/dariulonePosts/config"
	"github.com/dariulone/dariulonePosts/controllers"
	"github.com/dariulone/dariulonePosts/middleware"
	"github.com/dariulone/dariulonePosts/repositories"
	"github.com/dariulone/dariulonePosts/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, emailService *services.EmailService, broadcaster *services.Broadcaster) {
	// Controllers
	notificationRepo := repositories.NewNotificationRepository(db)
	notificationController := controllers.NewNotificationController(notificationRepo, broadcaster)
	authController := controllers.NewAuthController(db, cfg.JWTSecret, emailService)
	userController := controllers.NewUserController(db, notificationController, broadcaster)
	postController := controllers.NewPostController(db, notificationController, broadcaster)
	liveController := controllers.NewLiveController(broadcaster)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Live-update channel; broadcast-only, no auth
	r.GET("/ws", liveController.Stream)

	// Auth routes (public, rate limited)
	auth := r.Group("/auth")
	auth.Use(middleware.RateLimit(20, 5))
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)
	}

	// Public read surface
	r.GET("/get_all_posts", postController.GetAllPosts)
	r.GET("/get_top_posts", postController.GetTopPosts)
	r.GET("/getpost/*slug", postController.GetPostBySlug)
	r.GET("/relatedposts/*slug", postController.GetRelatedPosts)
	r.GET("/get_posts_for_user/:id", postController.GetPostsForUser)

	// View counting is public but rate limited per IP on top of the 1-hour
	// dedup window
	r.POST("/increment_views/:id", middleware.RateLimit(60, 10), postController.IncrementViews)

	// Profile reads degrade gracefully without a token
	r.GET("/user/:id", middleware.OptionalAuthMiddleware(cfg.JWTSecret), userController.GetUserProfile)

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		// User routes
		users := protected.Group("/users")
		{
			users.GET("/me", userController.GetCurrentUser)
			users.PUT("/me", userController.UpdateProfile)
			users.POST("/follow/:id", userController.FollowUser)
			users.POST("/unfollow/:id", userController.UnfollowUser)
			users.GET("/is_following/:id", userController.IsFollowing)
			users.GET("/followers", userController.GetFollowers)
			users.GET("/following", userController.GetFollowing)
		}

		// Post write surface
		protected.POST("/create_post_for_user/:id", postController.CreatePost)
		protected.POST("/create_comment/:id", postController.CreateComment)
		protected.POST("/like_post/:id", postController.LikePost)
		protected.POST("/unlike_post/:id", postController.UnlikePost)
		protected.GET("/is_post_liked_by_user/:id", postController.IsPostLiked)

		// Notifications
		protected.GET("/get_notifications", notificationController.GetNotifications)
		protected.DELETE("/clear_notifications", notificationController.ClearNotifications)
		protected.POST("/create_notification", notificationController.CreateNotification)
	}
}
