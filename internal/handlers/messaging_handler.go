package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
	"github.com/socialconnect-app/backend/internal/storage"
)

// MessagingHandler handles HTTP requests for conversations and messages
type MessagingHandler struct {
	conversationRepository repositories.ConversationRepository
	messageRepository      repositories.MessageRepository
	userRepository         repositories.UserRepository
	blockRepository        repositories.BlockRepository
	notificationRepository repositories.NotificationRepository
	storage                storage.Storage
}

// NewMessagingHandler creates a new MessagingHandler
func NewMessagingHandler(
	conversationRepo repositories.ConversationRepository,
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	blockRepo repositories.BlockRepository,
	notificationRepo repositories.NotificationRepository,
	store storage.Storage,
) *MessagingHandler {
	return &MessagingHandler{
		conversationRepository: conversationRepo,
		messageRepository:      messageRepo,
		userRepository:         userRepo,
		blockRepository:        blockRepo,
		notificationRepository: notificationRepo,
		storage:                store,
	}
}

// RegisterMessagingRoutes registers conversation and message routes
func (h *MessagingHandler) RegisterMessagingRoutes(g *echo.Group) {
	g.GET("/conversations/", h.GetConversations)
	g.POST("/conversations/start/:username/", h.StartConversation)
	g.GET("/conversations/:conversation_id/messages/", h.GetMessages)
	g.POST("/conversations/:conversation_id/messages/", h.SendMessage)
	g.DELETE("/messages/:message_id/", h.DeleteMessage)
	g.GET("/users/:user_id/status/", h.GetUserStatus)
}

// GetConversations returns the user's conversation list, most recently
// active first, with last-message preview, unread badge and online flag.
func (h *MessagingHandler) GetConversations(c echo.Context) error {
	userID := getUserIDFromContext(c)

	conversations, err := h.conversationRepository.GetConversationsByUserID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	summaries := make([]models.ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		other, err := h.userRepository.GetUserByID(conv.OtherParticipant(userID))
		if err != nil {
			continue
		}

		summary := models.ConversationSummary{
			ID:              conv.ID,
			ParticipantName: other.Name(),
			Username:        other.Username,
			AvatarURL:       other.AvatarURL(),
			IsOnline:        other.IsOnline(),
		}

		if last, err := h.messageRepository.GetLastMessage(c.Request().Context(), conv.ID); err == nil && last != nil {
			summary.LastMessage = messagePreview(last)
			summary.LastMessageTime = relativeTime(last.CreatedAt)
		}
		if unread, err := h.messageRepository.CountUnread(c.Request().Context(), conv.ID, userID); err == nil {
			summary.UnreadCount = int(unread)
		}

		summaries = append(summaries, summary)
	}

	return c.JSON(http.StatusOK, echo.Map{"conversations": summaries})
}

// StartConversation opens (or returns) the two-party conversation with the
// named user. Starting an existing conversation is a no-op.
func (h *MessagingHandler) StartConversation(c echo.Context) error {
	userID := getUserIDFromContext(c)
	username := c.Param("username")

	other, err := h.userRepository.GetUserByUsername(username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if other.ID == userID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot message yourself")
	}

	blocked, err := h.blockRepository.IsBlocked(userID, other.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blocked {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot message this user")
	}

	conv, err := h.conversationRepository.GetConversationByParticipants(userID, other.ID)
	if err != nil {
		conv = &models.Conversation{UserAID: userID, UserBID: other.ID}
		if err := h.conversationRepository.CreateConversation(conv); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"conversation_id": conv.ID,
		"participant":     other.ToCompact(),
	})
}

// GetMessages returns a conversation's thread, oldest first, and marks the
// other side's messages as read — this is what clears the unread badge.
func (h *MessagingHandler) GetMessages(c echo.Context) error {
	userID := getUserIDFromContext(c)

	conv, err := h.participantConversation(c, userID)
	if err != nil {
		return err
	}

	messages, err := h.messageRepository.GetMessagesByConversationID(c.Request().Context(), conv.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.messageRepository.MarkConversationRead(c.Request().Context(), conv.ID, userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	other, err := h.userRepository.GetUserByID(conv.OtherParticipant(userID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]models.MessageView, 0, len(messages))
	for _, msg := range messages {
		view := models.MessageView{
			ID:            msg.ID.Hex(),
			Content:       msg.Content,
			IsOwn:         msg.SenderID == userID,
			CreatedAt:     msg.CreatedAt.Format("15:04"),
			HasAttachment: msg.AttachmentURL != "",
			AttachmentURL: msg.AttachmentURL,
			IsImage:       msg.AttachmentKind == models.MessageAttachmentImage,
		}
		if !view.IsOwn {
			view.SenderUsername = other.Username
			view.SenderAvatar = other.AvatarURL()
		}
		views = append(views, view)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"messages": views,
		"participant": echo.Map{
			"id":        other.ID,
			"username":  other.Username,
			"name":      other.Name(),
			"avatar":    other.AvatarURL(),
			"is_online": other.IsOnline(),
			"status":    other.LastActiveDisplay(),
		},
	})
}

// SendMessage sends text and/or an attachment into a conversation. A send
// bumps the conversation's activity time, moving it to the top of the list.
func (h *MessagingHandler) SendMessage(c echo.Context) error {
	userID := getUserIDFromContext(c)

	conv, err := h.participantConversation(c, userID)
	if err != nil {
		return err
	}

	otherID := conv.OtherParticipant(userID)
	blocked, err := h.blockRepository.IsBlocked(userID, otherID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blocked {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot message this user")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	content := strings.TrimSpace(req.Content)

	file, ferr := c.FormFile("attachment")
	hasFile := ferr == nil && file != nil

	if content == "" && !hasFile {
		return echo.NewHTTPError(http.StatusBadRequest, "Message cannot be empty")
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		Content:        content,
	}

	if hasFile {
		if file.Size > maxUploadSize {
			return echo.NewHTTPError(http.StatusBadRequest, "File too large (Max 10MB)")
		}
		url, err := h.storage.Save(file, "messages")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store upload")
		}
		msg.AttachmentURL = url
		if strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
			msg.AttachmentKind = models.MessageAttachmentImage
		} else {
			msg.AttachmentKind = models.MessageAttachmentFile
		}
	}

	if err := h.messageRepository.CreateMessage(c.Request().Context(), msg); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.conversationRepository.TouchConversation(conv.ID, msg.CreatedAt); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if sender, err := h.userRepository.GetUserByID(userID); err == nil {
		_ = h.notificationRepository.CreateNotification(&models.Notification{
			Type:        models.NotificationMessage,
			SenderID:    userID,
			RecipientID: otherID,
			Title:       "New message from " + sender.Name(),
			Message:     messagePreview(msg),
			Link:        fmt.Sprintf("/messages/%d", conv.ID),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": models.MessageView{
			ID:            msg.ID.Hex(),
			Content:       msg.Content,
			IsOwn:         true,
			CreatedAt:     msg.CreatedAt.Format("15:04"),
			HasAttachment: msg.AttachmentURL != "",
			AttachmentURL: msg.AttachmentURL,
			IsImage:       msg.AttachmentKind == models.MessageAttachmentImage,
		},
	})
}

// DeleteMessage deletes a message. Sender only.
func (h *MessagingHandler) DeleteMessage(c echo.Context) error {
	userID := getUserIDFromContext(c)
	messageID := c.Param("message_id")

	msg, err := h.messageRepository.GetMessageByID(c.Request().Context(), messageID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Message not found")
	}
	if msg.SenderID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this message")
	}

	if err := h.messageRepository.DeleteMessage(c.Request().Context(), messageID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if msg.AttachmentURL != "" {
		_ = h.storage.Delete(msg.AttachmentURL)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetUserStatus returns a user's presence: the online flag and the display
// label the chat header shows.
func (h *MessagingHandler) GetUserStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"is_online": user.IsOnline(),
		"status":    user.LastActiveDisplay(),
	})
}

// participantConversation loads the :conversation_id conversation and checks
// the caller is one of its two participants.
func (h *MessagingHandler) participantConversation(c echo.Context, userID uint) (*models.Conversation, error) {
	id, err := strconv.ParseUint(c.Param("conversation_id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid conversation ID")
	}

	conv, err := h.conversationRepository.GetConversationByID(uint(id))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
	}
	if !conv.HasParticipant(userID) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not part of this conversation")
	}
	return conv, nil
}

// messagePreview renders the one-line preview the conversation list shows
func messagePreview(msg *models.Message) string {
	if msg.AttachmentURL != "" {
		if msg.AttachmentKind == models.MessageAttachmentImage {
			return "📷 Photo"
		}
		return "📎 File"
	}
	return msg.Content
}

// relativeTime renders a timestamp the way the conversation list shows it
func relativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours())/24)
	case diff >= time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff >= time.Minute:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	default:
		return "Just now"
	}
}
