package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
)

// FriendshipHandler handles friend requests and friendships
type FriendshipHandler struct {
	friendshipRepository   repositories.FriendshipRepository
	userRepository         repositories.UserRepository
	blockRepository        repositories.BlockRepository
	notificationRepository repositories.NotificationRepository
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(
	friendshipRepo repositories.FriendshipRepository,
	userRepo repositories.UserRepository,
	blockRepo repositories.BlockRepository,
	notificationRepo repositories.NotificationRepository,
) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository:   friendshipRepo,
		userRepository:         userRepo,
		blockRepository:        blockRepo,
		notificationRepository: notificationRepo,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request/:username/", h.SendFriendRequest)
	g.POST("/friends/cancel/:username/", h.CancelFriendRequest)
	g.POST("/friends/accept/:request_id/", h.AcceptFriendRequest)
	g.POST("/friends/reject/:request_id/", h.RejectFriendRequest)
	g.POST("/friends/unfriend/:username/", h.Unfriend)
	g.GET("/friends/", h.GetFriends)
	g.GET("/friends/:username/", h.GetFriends)
	g.GET("/friends/suggestions/", h.GetSuggestions)
}

// SendFriendRequest sends a friend request to the named user
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	userID := getUserIDFromContext(c)

	target, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if target.ID == userID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot friend yourself")
	}

	blocked, err := h.blockRepository.IsBlocked(userID, target.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blocked {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	friends, err := h.friendshipRepository.AreFriends(userID, target.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if friends {
		return echo.NewHTTPError(http.StatusConflict, "You are already friends")
	}

	if _, err := h.friendshipRepository.GetFriendRequest(userID, target.ID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Friend request already sent")
	}

	// If the other side already asked, accept instead of stacking requests
	if req, err := h.friendshipRepository.GetFriendRequest(target.ID, userID); err == nil {
		return h.acceptRequest(c, req, userID)
	}

	request := &models.FriendRequest{FromUserID: userID, ToUserID: target.ID}
	if err := h.friendshipRepository.CreateFriendRequest(request); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if sender, err := h.userRepository.GetUserByID(userID); err == nil {
		_ = h.notificationRepository.CreateNotification(&models.Notification{
			Type:        models.NotificationFriendRequest,
			SenderID:    userID,
			RecipientID: target.ID,
			Title:       sender.Name() + " sent you a friend request",
			Link:        "/profile/" + sender.Username,
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "status": "request_sent"})
}

// CancelFriendRequest withdraws a sent friend request
func (h *FriendshipHandler) CancelFriendRequest(c echo.Context) error {
	userID := getUserIDFromContext(c)

	target, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if _, err := h.friendshipRepository.GetFriendRequest(userID, target.ID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Friend request not found")
	}
	if err := h.friendshipRepository.DeleteFriendRequest(userID, target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// AcceptFriendRequest accepts an incoming friend request by ID
func (h *FriendshipHandler) AcceptFriendRequest(c echo.Context) error {
	userID := getUserIDFromContext(c)

	req, err := h.requestForRecipient(c, userID)
	if err != nil {
		return err
	}
	return h.acceptRequest(c, req, userID)
}

// RejectFriendRequest declines an incoming friend request by ID
func (h *FriendshipHandler) RejectFriendRequest(c echo.Context) error {
	userID := getUserIDFromContext(c)

	req, err := h.requestForRecipient(c, userID)
	if err != nil {
		return err
	}
	if err := h.friendshipRepository.DeleteFriendRequestByID(req.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Unfriend removes an existing friendship
func (h *FriendshipHandler) Unfriend(c echo.Context) error {
	userID := getUserIDFromContext(c)

	target, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if err := h.friendshipRepository.DeleteFriendship(userID, target.ID); err != nil {
		if err.Error() == "friendship not found" {
			return echo.NewHTTPError(http.StatusNotFound, "You are not friends with this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetFriends lists the caller's friends, or the named user's
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	userID := getUserIDFromContext(c)

	subject := userID
	if username := c.Param("username"); username != "" {
		user, err := h.userRepository.GetUserByUsername(username)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		subject = user.ID
	}

	ids, err := h.friendshipRepository.GetFriendIDs(subject)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	friends := make([]models.UserCompact, 0, len(ids))
	for _, id := range ids {
		if user, err := h.userRepository.GetUserByID(id); err == nil {
			friends = append(friends, user.ToCompact())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"friends": friends, "count": len(friends)})
}

// GetSuggestions lists people the caller might know: everyone except self,
// existing friends, users who already sent a request, and blocked users.
func (h *FriendshipHandler) GetSuggestions(c echo.Context) error {
	userID := getUserIDFromContext(c)

	users, err := h.userRepository.GetUsers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	exclude := map[uint]bool{userID: true}
	if ids, err := h.friendshipRepository.GetFriendIDs(userID); err == nil {
		for _, id := range ids {
			exclude[id] = true
		}
	}
	if ids, err := h.friendshipRepository.GetIncomingRequesterIDs(userID); err == nil {
		for _, id := range ids {
			exclude[id] = true
		}
	}
	if ids, err := h.blockRepository.GetBlockedIDs(userID); err == nil {
		for _, id := range ids {
			exclude[id] = true
		}
	}

	outgoing := make(map[uint]bool)
	if ids, err := h.friendshipRepository.GetOutgoingRequestIDs(userID); err == nil {
		for _, id := range ids {
			outgoing[id] = true
		}
	}

	suggestions := make([]models.SuggestedUser, 0)
	for _, user := range users {
		if exclude[user.ID] {
			continue
		}
		suggestions = append(suggestions, models.SuggestedUser{
			User:              user.ToCompact(),
			HasPendingRequest: outgoing[user.ID],
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"suggestions": suggestions})
}

func (h *FriendshipHandler) requestForRecipient(c echo.Context, userID uint) (*models.FriendRequest, error) {
	id, err := strconv.ParseUint(c.Param("request_id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}
	req, err := h.friendshipRepository.GetFriendRequestByID(uint(id))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Friend request not found")
	}
	if req.ToUserID != userID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "This request is not addressed to you")
	}
	return req, nil
}

func (h *FriendshipHandler) acceptRequest(c echo.Context, req *models.FriendRequest, userID uint) error {
	if err := h.friendshipRepository.CreateFriendship(req.FromUserID, req.ToUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.friendshipRepository.DeleteFriendRequestByID(req.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if accepter, err := h.userRepository.GetUserByID(userID); err == nil {
		_ = h.notificationRepository.CreateNotification(&models.Notification{
			Type:        models.NotificationFriendAccept,
			SenderID:    userID,
			RecipientID: req.FromUserID,
			Title:       accepter.Name() + " accepted your friend request",
			Link:        "/profile/" + accepter.Username,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "status": "friends"})
}
