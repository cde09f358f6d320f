package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository         repositories.LikeRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
) *LikeHandler {
	return &LikeHandler{
		likeRepository:         likeRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notificationRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like/", h.ToggleLike)
}

// ToggleLike likes the post if the user hasn't liked it, unlikes it if they
// have. The response is authoritative; the client renders it as-is.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	userID := getUserIDFromContext(c)
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	hasLiked, err := h.likeRepository.HasUserLikedPost(postID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if hasLiked {
		if err := h.likeRepository.DeleteLike(postID, userID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if err := h.postRepository.IncrementLikesCount(c.Request().Context(), postID, -1); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else {
		like := &models.Like{PostID: postID, UserID: userID}
		if err := h.likeRepository.CreateLike(like); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if err := h.postRepository.IncrementLikesCount(c.Request().Context(), postID, 1); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.notifyLiked(c, postID, userID)
	}

	count, err := h.likeRepository.GetLikesCountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"liked":      !hasLiked,
		"like_count": count,
	})
}

func (h *LikeHandler) notifyLiked(c echo.Context, postID string, actorID uint) {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return
	}
	actor, err := h.userRepository.GetUserByID(actorID)
	if err != nil {
		return
	}
	_ = h.notificationRepository.CreateNotification(&models.Notification{
		Type:        models.NotificationPostLike,
		SenderID:    actorID,
		RecipientID: post.UserID,
		Title:       actor.Name() + " liked your post",
		Link:        "/posts/" + postID,
	})
}
