package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository  repositories.PostRepository
	userRepository  repositories.UserRepository
	likeRepository  repositories.LikeRepository
	shareRepository repositories.ShareRepository
	blockRepository repositories.BlockRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	shareRepo repositories.ShareRepository,
	blockRepo repositories.BlockRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:  postRepo,
		userRepository:  userRepo,
		likeRepository:  likeRepo,
		shareRepository: shareRepo,
		blockRepository: blockRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed/", h.GetFeed)
}

// EnrichedPost is a post with author info and user-specific flags
type EnrichedPost struct {
	models.Post
	Author   models.UserCompact `json:"author"`
	IsLiked  bool               `json:"is_liked"`
	IsShared bool               `json:"is_shared"`
}

// GetFeed returns enriched feed posts for the current user, newest first.
// Posts by users blocked in either direction never appear.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	blockedIDs, err := h.blockRepository.GetBlockedIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	blocked := make(map[uint]bool, len(blockedIDs))
	for _, id := range blockedIDs {
		blocked[id] = true
	}

	// Block filtering happens after the fetch, so paginate over the full
	// filtered list rather than pushing skip/limit into the store.
	allPosts, err := h.postRepository.GetAllPosts(c.Request().Context(), 0, 10000)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	visible := make([]models.Post, 0, len(allPosts))
	for _, p := range allPosts {
		if !blocked[p.UserID] {
			visible = append(visible, p)
		}
	}
	totalItems := len(visible)

	start := (page - 1) * limit
	if start > totalItems {
		start = totalItems
	}
	end := start + limit
	if end > totalItems {
		end = totalItems
	}
	posts := visible[start:end]

	// Build user map from the page's authors
	userIDs := make(map[uint]bool)
	postIDs := make([]string, len(posts))
	for i, p := range posts {
		userIDs[p.UserID] = true
		postIDs[i] = p.ID.Hex()
	}
	userMap := make(map[uint]models.UserCompact)
	for id := range userIDs {
		if user, err := h.userRepository.GetUserByID(id); err == nil {
			userMap[id] = user.ToCompact()
		}
	}

	// Check liked and shared status for current user
	likedMap := make(map[string]bool)
	sharedMap := make(map[string]bool)
	if currentUserID > 0 {
		for _, pid := range postIDs {
			liked, _ := h.likeRepository.HasUserLikedPost(pid, currentUserID)
			likedMap[pid] = liked
		}
		sharedMap, _ = h.shareRepository.GetSharedPostIDs(currentUserID, postIDs)
	}

	enrichedPosts := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		pid := p.ID.Hex()
		enrichedPosts[i] = EnrichedPost{
			Post:     p,
			Author:   userMap[p.UserID],
			IsLiked:  likedMap[pid],
			IsShared: sharedMap[pid],
		}
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": enrichedPosts,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      totalItems,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}
