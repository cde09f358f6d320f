package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository  repositories.UserRepository
	blockRepository repositories.BlockRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, blockRepo repositories.BlockRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo, blockRepository: blockRepo}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/me/", h.GetMe)
	g.GET("/users/search/", h.SearchUsers)
}

// GetMe retrieves the authenticated user's account
func (h *UserHandler) GetMe(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// SearchUsers searches for users by name, username or email. Users blocked
// in either direction never show up.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	userID := getUserIDFromContext(c)

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query 'q' is required")
	}

	users, err := h.userRepository.SearchUsers(query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	blockedIDs, err := h.blockRepository.GetBlockedIDs(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	blocked := make(map[uint]bool, len(blockedIDs))
	for _, id := range blockedIDs {
		blocked[id] = true
	}

	results := make([]models.UserCompact, 0, len(users))
	for _, user := range users {
		if blocked[user.ID] {
			continue
		}
		results = append(results, user.ToCompact())
	}

	return c.JSON(http.StatusOK, echo.Map{"users": results})
}
