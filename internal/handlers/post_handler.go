package handlers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
	"github.com/socialconnect-app/backend/internal/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// maxUploadSize caps post and message attachments at 10 MB
const maxUploadSize = 10 << 20

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	commentRepository repositories.CommentRepository
	likeRepository    repositories.LikeRepository
	shareRepository   repositories.ShareRepository
	reportRepository  repositories.ReportRepository
	storage           storage.Storage
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	shareRepo repositories.ShareRepository,
	reportRepo repositories.ReportRepository,
	store storage.Storage,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		commentRepository: commentRepo,
		likeRepository:    likeRepo,
		shareRepository:   shareRepo,
		reportRepository:  reportRepo,
		storage:           store,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts/", h.CreatePost)
	g.DELETE("/posts/:post_id/", h.DeletePost)
	g.POST("/posts/:post_id/report/", h.ReportPost)
}

// CreatePost creates a new post from the compose form: text content plus an
// optional single media file.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	content := strings.TrimSpace(req.Content)

	file, err := c.FormFile("media")
	hasFile := err == nil && file != nil

	// A post needs text or media; whitespace-only text alone is nothing.
	if content == "" && !hasFile {
		return echo.NewHTTPError(http.StatusBadRequest, "Post content cannot be empty")
	}

	var attachment *models.PostAttachment
	if hasFile {
		if file.Size > maxUploadSize {
			return echo.NewHTTPError(http.StatusBadRequest, "File too large (Max 10MB)")
		}

		contentType := file.Header.Get("Content-Type")
		var kind string
		switch {
		case strings.HasPrefix(contentType, "image/"):
			kind = models.AttachmentImage
		case strings.HasPrefix(contentType, "video/"):
			kind = models.AttachmentVideo
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "Only image and video files are allowed")
		}

		url, err := h.storage.Save(file, "posts")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store upload")
		}
		attachment = &models.PostAttachment{URL: url, Kind: kind}
	}

	post := &models.Post{
		UserID:     userID,
		Content:    content,
		Attachment: attachment,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// DeletePost deletes a post and its likes and comments. Owner only.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	postID := c.Param("post_id")

	existingPost, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if err.Error() == "post not found" || err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if existingPost.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Dependent rows go with the post
	_ = h.likeRepository.DeleteLikesByPostID(postID)
	_ = h.commentRepository.DeleteCommentsByPostID(postID)
	if existingPost.Attachment != nil {
		_ = h.storage.Delete(existingPost.Attachment.URL)
	}

	return c.NoContent(http.StatusNoContent)
}

// ReportPost records a report for a post, once per user per post
func (h *PostHandler) ReportPost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	postID := c.Param("post_id")

	var req models.ReportPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	reported, err := h.reportRepository.HasUserReportedPost(postID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if reported {
		return c.JSON(http.StatusOK, echo.Map{"detail": "Post reported"})
	}

	report := &models.PostReport{
		PostID: postID,
		UserID: userID,
		Reason: req.Reason,
	}
	if err := h.reportRepository.CreateReport(report); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"detail": "Post reported"})
}
