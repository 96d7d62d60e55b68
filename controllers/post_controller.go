// File: /controllers/post_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dariulone/dariulonePosts/middleware"
	"github.com/dariulone/dariulonePosts/models"
	"github.com/dariulone/dariulonePosts/services"
	"github.com/dariulone/dariulonePosts/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// viewDedupWindow is the trailing interval within which repeated views from
// the same address do not count again.
const viewDedupWindow = time.Hour

type PostController struct {
	db                     *gorm.DB
	notificationController *NotificationController
	broadcaster            *services.Broadcaster
}

func NewPostController(db *gorm.DB, notificationController *NotificationController, broadcaster *services.Broadcaster) *PostController {
	return &PostController{
		db:                     db,
		notificationController: notificationController,
		broadcaster:            broadcaster,
	}
}

type CreatePostRequest struct {
	Title     string             `json:"title" binding:"required"`
	Body      string             `json:"body" binding:"required"`
	Category  string             `json:"category" binding:"required"`
	Tags      models.StringSlice `json:"tags"`
	MainImage *string            `json:"main_image"`
}

// CreatePost publishes a post for the authenticated caller, fans a
// notification out to every follower and signals connected clients.
func (pc *PostController) CreatePost(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	pathUserID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var pathUser models.User
	if err := pc.db.First(&pathUser, "id = ?", pathUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.IsValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category must not be empty"})
		return
	}

	tags := req.Tags
	if tags == nil {
		tags = models.StringSlice{}
	}

	post := models.Post{
		Title:     req.Title,
		Body:      req.Body,
		AuthorID:  userID,
		Category:  req.Category,
		Tags:      tags,
		Slug:      models.GenerateSlug(),
		MainImage: req.MainImage,
	}

	if err := pc.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	var author models.User
	pc.db.First(&author, "id = ?", userID)
	post.Author = author

	// Fan out to followers; best effort, the post itself is already durable
	if notified, err := pc.notificationController.NotifyFollowers(&author, &post); err != nil {
		fmt.Printf("Failed to notify followers of post %d: %v\n", post.ID, err)
	} else if notified > 0 {
		fmt.Printf("Notified %d followers of post %d\n", notified, post.ID)
	}

	pc.broadcaster.Broadcast()

	c.JSON(http.StatusCreated, post)
}

// GetPostsForUser lists every post by one author.
func (pc *PostController) GetPostsForUser(c *gin.Context) {
	targetID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := pc.db.First(&user, "id = ?", targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var posts []models.Post
	if err := pc.db.Preload("Author").Preload("Comments.Author").
		Where("author_id = ?", targetID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	pc.attachViewCounts(posts)
	c.JSON(http.StatusOK, posts)
}

// GetAllPosts returns published posts newest first, paginated by page/count.
func (pc *PostController) GetAllPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	count, _ := strconv.Atoi(c.DefaultQuery("count", "3"))

	if page < 1 {
		page = 1
	}
	if count < 1 || count > 100 {
		count = 3
	}

	offset := (page - 1) * count

	var total int64
	pc.db.Model(&models.Post{}).Count(&total)

	var posts []models.Post
	if err := pc.db.Preload("Author").Preload("Comments.Author").
		Order("created_at DESC").
		Offset(offset).
		Limit(count).
		Find(&posts).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	pc.attachViewCounts(posts)
	utils.SendPaginated(c, posts, page, count, total)
}

// GetPostBySlug resolves one post by its unique slug.
func (pc *PostController) GetPostBySlug(c *gin.Context) {
	slug := strings.TrimPrefix(c.Param("slug"), "/")

	var post models.Post
	if err := pc.db.Preload("Author").Preload("Comments.Author").
		Where("slug = ?", slug).
		First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	pc.db.Model(&models.PostView{}).Where("post_id = ?", post.ID).Count(&post.ViewsCount)

	c.JSON(http.StatusOK, post)
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// CreateComment adds a comment and signals connected clients.
func (pc *PostController) CreateComment(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	postID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := models.Comment{
		PostID:   postID,
		AuthorID: userID,
		Body:     req.Body,
	}

	if err := pc.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	pc.db.Preload("Author").First(&comment, "id = ?", comment.ID)

	pc.broadcaster.Broadcast()

	c.JSON(http.StatusCreated, comment)
}

// LikePost inserts the like row and increments the denormalized counter in
// one transaction, so the counter never drifts from the row count.
func (pc *PostController) LikePost(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	postID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	// Check if already liked
	var existingLike models.PostLike
	if err := pc.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&existingLike).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already liked this post"})
		return
	}

	err = pc.db.Transaction(func(tx *gorm.DB) error {
		like := models.PostLike{
			PostID: postID,
			UserID: userID,
		}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1)).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": post.Likes + 1})
}

// UnlikePost removes the like row and decrements the counter in one
// transaction.
func (pc *PostController) UnlikePost(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	postID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var existingLike models.PostLike
	if err := pc.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&existingLike).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You haven't liked this post yet"})
		return
	}

	err = pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&existingLike).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes", gorm.Expr("likes - ?", 1)).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlike post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": post.Likes - 1})
}

// IsPostLiked is a deliberately permissive existence check: an absent post or
// like reads as false, never as an error.
func (pc *PostController) IsPostLiked(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	postID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"isLiked": false})
		return
	}

	var count int64
	pc.db.Model(&models.PostLike{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count)

	c.JSON(http.StatusOK, gin.H{"isLiked": count > 0})
}

// GetTopPosts returns the most viewed posts.
func (pc *PostController) GetTopPosts(c *gin.Context) {
	count, _ := strconv.Atoi(c.DefaultQuery("count", "6"))
	if count < 1 || count > 100 {
		count = 6
	}

	var posts []models.Post
	if err := pc.db.Preload("Author").
		Joins("LEFT JOIN post_views ON post_views.post_id = posts.id").
		Group("posts.id").
		Order("COUNT(post_views.id) DESC").
		Limit(count).
		Find(&posts).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to fetch top posts")
		return
	}

	pc.attachViewCounts(posts)
	c.JSON(http.StatusOK, posts)
}

// GetRelatedPosts returns up to 5 other posts from the base post's category.
func (pc *PostController) GetRelatedPosts(c *gin.Context) {
	slug := strings.TrimPrefix(c.Param("slug"), "/")

	var current models.Post
	if err := pc.db.Where("slug = ?", slug).First(&current).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var related []models.Post
	if err := pc.db.Where("category = ? AND slug != ?", current.Category, slug).
		Limit(5).
		Find(&related).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch related posts"})
		return
	}

	response := models.RelatedPostsResponse{
		CurrentPost: models.RelatedPostSummary{
			Title:    current.Title,
			Slug:     current.Slug,
			Category: current.Category,
			Content:  current.Body,
		},
		RelatedPosts: make([]models.RelatedPostSummary, 0, len(related)),
	}

	for _, post := range related {
		response.RelatedPosts = append(response.RelatedPosts, models.RelatedPostSummary{
			Title:    post.Title,
			Slug:     post.Slug,
			Category: post.Category,
			Image:    post.MainImage,
		})
	}

	c.JSON(http.StatusOK, response)
}

// IncrementViews counts one view per client address per hour. The
// check-then-insert below is not atomic: two concurrent requests from the
// same address can both pass the lookup and both insert. Accepted limitation,
// see the post controller tests.
func (pc *PostController) IncrementViews(c *gin.Context) {
	postID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	ipAddress := c.ClientIP()
	windowStart := time.Now().Add(-viewDedupWindow)

	var existing int64
	pc.db.Model(&models.PostView{}).
		Where("post_id = ? AND ip_address = ? AND timestamp >= ?", postID, ipAddress, windowStart).
		Count(&existing)

	var views int64
	if existing > 0 {
		pc.db.Model(&models.PostView{}).Where("post_id = ?", postID).Count(&views)
		c.JSON(http.StatusOK, gin.H{
			"message": "View already counted in the last hour",
			"views":   views,
		})
		return
	}

	view := models.PostView{
		PostID:    postID,
		IPAddress: ipAddress,
		Timestamp: time.Now(),
	}

	if err := pc.db.Create(&view).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record view"})
		return
	}

	pc.db.Model(&models.PostView{}).Where("post_id = ?", postID).Count(&views)

	c.JSON(http.StatusOK, gin.H{"views": views})
}

// attachViewCounts resolves the derived views_count for a batch of posts with
// one grouped query.
func (pc *PostController) attachViewCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	ids := make([]uint, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}

	type viewCount struct {
		PostID uint
		Total  int64
	}

	var counts []viewCount
	pc.db.Model(&models.PostView{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&counts)

	byPost := make(map[uint]int64, len(counts))
	for _, vc := range counts {
		byPost[vc.PostID] = vc.Total
	}

	for i := range posts {
		posts[i].ViewsCount = byPost[posts[i].ID]
	}
}
