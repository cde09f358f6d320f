package handlers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notificationRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/posts/:post_id/comments/", h.GetComments)
	g.POST("/posts/:post_id/comments/", h.CreateComment)
}

// GetComments returns a post's comments, oldest first. Fetching the same
// thread twice returns the same list; reads have no side effects.
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, h.toView(&comment))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"comments": views,
		"count":    len(views),
	})
}

// CreateComment adds a comment to a post. The response carries the stored
// comment with server-side author fields plus the new total.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Content = strings.TrimSpace(req.Content)

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment cannot be empty")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementCommentsCount(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	count, err := h.commentRepository.GetCommentsCountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if actor, err := h.userRepository.GetUserByID(userID); err == nil {
		_ = h.notificationRepository.CreateNotification(&models.Notification{
			Type:        models.NotificationPostComment,
			SenderID:    userID,
			RecipientID: post.UserID,
			Title:       actor.Name() + " commented on your post",
			Message:     req.Content,
			Link:        "/posts/" + postID,
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":       true,
		"comment":       h.toView(comment),
		"comment_count": count,
	})
}

func (h *CommentHandler) toView(comment *models.Comment) models.CommentView {
	view := models.CommentView{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Format("Jan 2, 2006 15:04"),
	}
	if user, err := h.userRepository.GetUserByID(comment.UserID); err == nil {
		view.User = user.Name()
		view.Avatar = user.AvatarURL()
	}
	return view
}
