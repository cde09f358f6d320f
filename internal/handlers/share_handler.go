package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
)

// ShareHandler handles HTTP requests related to post shares
type ShareHandler struct {
	shareRepository        repositories.ShareRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	blockRepository        repositories.BlockRepository
	notificationRepository repositories.NotificationRepository
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(
	shareRepo repositories.ShareRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	blockRepo repositories.BlockRepository,
	notificationRepo repositories.NotificationRepository,
) *ShareHandler {
	return &ShareHandler{
		shareRepository:        shareRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		blockRepository:        blockRepo,
		notificationRepository: notificationRepo,
	}
}

// RegisterShareRoutes registers share-related routes
func (h *ShareHandler) RegisterShareRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/share/", h.SharePost)
	g.POST("/posts/:post_id/unshare/", h.UnsharePost)
	g.GET("/posts/:post_id/share-count/", h.GetShareCount)
}

// SharePost shares a post to the user's profile with an optional caption.
// Sharing the same post twice fails and leaves the count unchanged.
func (h *ShareHandler) SharePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	postID := c.Param("post_id")

	var req models.SharePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	blocked, err := h.blockRepository.IsBlocked(userID, post.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blocked {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot share this post")
	}

	shared, err := h.shareRepository.HasUserSharedPost(postID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if shared {
		return echo.NewHTTPError(http.StatusBadRequest, "You have already shared this post.")
	}

	share := &models.SharedPost{
		UserID:  userID,
		PostID:  postID,
		Caption: req.Caption,
	}
	if err := h.shareRepository.CreateShare(share); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementSharesCount(c.Request().Context(), postID, 1); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	count, err := h.shareRepository.GetSharesCountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if actor, err := h.userRepository.GetUserByID(userID); err == nil {
		_ = h.notificationRepository.CreateNotification(&models.Notification{
			Type:        models.NotificationPostShare,
			SenderID:    userID,
			RecipientID: post.UserID,
			Title:       actor.Name() + " shared your post",
			Link:        "/posts/" + postID,
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":     true,
		"share_count": count,
	})
}

// UnsharePost removes the user's share of a post
func (h *ShareHandler) UnsharePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	if err := h.shareRepository.DeleteShare(postID, userID); err != nil {
		if err.Error() == "share not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Share not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementSharesCount(c.Request().Context(), postID, -1); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	count, err := h.shareRepository.GetSharesCountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"share_count": count,
	})
}

// GetShareCount returns the number of shares for a post
func (h *ShareHandler) GetShareCount(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	count, err := h.shareRepository.GetSharesCountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "share_count": count})
}
