package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessagingHandler(t *testing.T, repos *repositories.Repositories) *MessagingHandler {
	t.Helper()
	return NewMessagingHandler(repos.Conversations, repos.Messages, repos.Users, repos.Blocks, repos.Notifications, newTestStorage(t))
}

func startConversation(t *testing.T, h *MessagingHandler, user *models.User, username string) uint {
	t.Helper()
	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodPost, "/api/conversations/start/"+username+"/", ""), rec, user)
	c.SetParamNames("username")
	c.SetParamValues(username)
	require.NoError(t, h.StartConversation(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ConversationID uint `json:"conversation_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.ConversationID
}

func sendMessage(t *testing.T, h *MessagingHandler, user *models.User, conversationID uint, content string) {
	t.Helper()
	rec := httptest.NewRecorder()
	c := newContext(formRequest(http.MethodPost, "/api/conversations/", url.Values{"content": {content}}), rec, user)
	c.SetParamNames("conversation_id")
	c.SetParamValues(strconv.FormatUint(uint64(conversationID), 10))
	require.NoError(t, h.SendMessage(c))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestStartConversationIdempotent(t *testing.T) {
	repos := newTestRepos()
	alice := createTestUser(t, repos, "alice", "alice@example.com")
	createTestUser(t, repos, "bob", "bob@example.com")
	h := newMessagingHandler(t, repos)

	first := startConversation(t, h, alice, "bob")
	second := startConversation(t, h, alice, "bob")
	assert.Equal(t, first, second)
}

func TestGetMessagesMarksThreadRead(t *testing.T) {
	repos := newTestRepos()
	alice := createTestUser(t, repos, "alice", "alice@example.com")
	bob := createTestUser(t, repos, "bob", "bob@example.com")
	h := newMessagingHandler(t, repos)

	convID := startConversation(t, h, bob, "alice")
	sendMessage(t, h, bob, convID, "hey alice")
	sendMessage(t, h, bob, convID, "you there?")

	unread, err := repos.Messages.CountUnread(context.Background(), convID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), unread)

	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodGet, "/api/conversations/", ""), rec, alice)
	c.SetParamNames("conversation_id")
	c.SetParamValues(strconv.FormatUint(uint64(convID), 10))
	require.NoError(t, h.GetMessages(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Messages []models.MessageView `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "hey alice", body.Messages[0].Content)
	assert.False(t, body.Messages[0].IsOwn)

	// Opening the thread cleared the unread badge
	unread, err = repos.Messages.CountUnread(context.Background(), convID, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestGetMessagesParticipantOnly(t *testing.T) {
	repos := newTestRepos()
	alice := createTestUser(t, repos, "alice", "alice@example.com")
	createTestUser(t, repos, "bob", "bob@example.com")
	eve := createTestUser(t, repos, "eve", "eve@example.com")
	h := newMessagingHandler(t, repos)

	convID := startConversation(t, h, alice, "bob")

	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodGet, "/api/conversations/", ""), rec, eve)
	c.SetParamNames("conversation_id")
	c.SetParamValues(strconv.FormatUint(uint64(convID), 10))

	err := h.GetMessages(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)
}

func TestSendMessageMovesConversationToTop(t *testing.T) {
	repos := newTestRepos()
	alice := createTestUser(t, repos, "alice", "alice@example.com")
	createTestUser(t, repos, "bob", "bob@example.com")
	createTestUser(t, repos, "carol", "carol@example.com")
	h := newMessagingHandler(t, repos)

	bobConv := startConversation(t, h, alice, "bob")
	carolConv := startConversation(t, h, alice, "carol")

	// Backdate both so the send below is strictly newest
	past := time.Now().Add(-time.Hour)
	require.NoError(t, repos.Conversations.TouchConversation(bobConv, past))
	require.NoError(t, repos.Conversations.TouchConversation(carolConv, past.Add(time.Minute)))

	sendMessage(t, h, alice, bobConv, "bumping this thread")

	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodGet, "/api/conversations/", ""), rec, alice)
	require.NoError(t, h.GetConversations(c))

	var body struct {
		Conversations []models.ConversationSummary `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Conversations, 2)
	assert.Equal(t, bobConv, body.Conversations[0].ID)
	assert.Equal(t, "bumping this thread", body.Conversations[0].LastMessage)
}

func TestSendEmptyMessageRejected(t *testing.T) {
	repos := newTestRepos()
	alice := createTestUser(t, repos, "alice", "alice@example.com")
	createTestUser(t, repos, "bob", "bob@example.com")
	h := newMessagingHandler(t, repos)

	convID := startConversation(t, h, alice, "bob")

	rec := httptest.NewRecorder()
	c := newContext(formRequest(http.MethodPost, "/api/conversations/", url.Values{"content": {"   "}}), rec, alice)
	c.SetParamNames("conversation_id")
	c.SetParamValues(strconv.FormatUint(uint64(convID), 10))

	err := h.SendMessage(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestBlockedPairCannotMessage(t *testing.T) {
	repos := newTestRepos()
	alice := createTestUser(t, repos, "alice", "alice@example.com")
	bob := createTestUser(t, repos, "bob", "bob@example.com")
	h := newMessagingHandler(t, repos)

	convID := startConversation(t, h, alice, "bob")
	require.NoError(t, repos.Blocks.CreateBlock(&models.Block{BlockerID: bob.ID, BlockedID: alice.ID}))

	rec := httptest.NewRecorder()
	c := newContext(formRequest(http.MethodPost, "/api/conversations/", url.Values{"content": {"hello?"}}), rec, alice)
	c.SetParamNames("conversation_id")
	c.SetParamValues(strconv.FormatUint(uint64(convID), 10))

	err := h.SendMessage(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)
}

func TestDeleteMessageSenderOnly(t *testing.T) {
	repos := newTestRepos()
	alice := createTestUser(t, repos, "alice", "alice@example.com")
	bob := createTestUser(t, repos, "bob", "bob@example.com")
	h := newMessagingHandler(t, repos)

	convID := startConversation(t, h, alice, "bob")
	sendMessage(t, h, alice, convID, "sent by alice")

	messages, err := repos.Messages.GetMessagesByConversationID(context.Background(), convID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	msgID := messages[0].ID.Hex()

	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodDelete, "/api/messages/"+msgID+"/", ""), rec, bob)
	c.SetParamNames("message_id")
	c.SetParamValues(msgID)

	err = h.DeleteMessage(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)

	rec = httptest.NewRecorder()
	c = newContext(jsonRequest(http.MethodDelete, "/api/messages/"+msgID+"/", ""), rec, alice)
	c.SetParamNames("message_id")
	c.SetParamValues(msgID)

	require.NoError(t, h.DeleteMessage(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUserStatusBuckets(t *testing.T) {
	repos := newTestRepos()
	alice := createTestUser(t, repos, "alice", "alice@example.com")
	bob := createTestUser(t, repos, "bob", "bob@example.com")
	require.NoError(t, repos.Users.UpdateLastActive(bob.ID, time.Now().Add(-3*time.Hour)))
	h := newMessagingHandler(t, repos)

	status := func(id uint) (bool, string) {
		rec := httptest.NewRecorder()
		c := newContext(jsonRequest(http.MethodGet, "/api/users/", ""), rec, alice)
		c.SetParamNames("user_id")
		c.SetParamValues(strconv.FormatUint(uint64(id), 10))
		require.NoError(t, h.GetUserStatus(c))

		var body struct {
			IsOnline bool   `json:"is_online"`
			Status   string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body.IsOnline, body.Status
	}

	online, label := status(alice.ID)
	assert.True(t, online)
	assert.Equal(t, "Active now", label)

	online, label = status(bob.ID)
	assert.False(t, online)
	assert.Equal(t, "Active 3h ago", label)
}

func TestAttachmentMessagePreview(t *testing.T) {
	msg := &models.Message{AttachmentURL: "/media/messages/x.png", AttachmentKind: models.MessageAttachmentImage}
	assert.Equal(t, "📷 Photo", messagePreview(msg))

	msg.AttachmentKind = models.MessageAttachmentFile
	assert.Equal(t, "📎 File", messagePreview(msg))

	text := &models.Message{Content: "plain text"}
	assert.Equal(t, "plain text", messagePreview(text))
}
