package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/socialconnect-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// MemoryFriendshipRepository implements FriendshipRepository in memory
type MemoryFriendshipRepository struct {
	mu          sync.Mutex
	requests    []*models.FriendRequest
	friendships []*models.Friendship
	nextID      uint
}

// NewMemoryFriendshipRepository creates an empty MemoryFriendshipRepository
func NewMemoryFriendshipRepository() *MemoryFriendshipRepository {
	return &MemoryFriendshipRepository{nextID: 1}
}

func (r *MemoryFriendshipRepository) CreateFriendRequest(req *models.FriendRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.FromUserID == req.FromUserID && existing.ToUserID == req.ToUserID {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	req.ID = r.nextID
	r.nextID++
	req.CreatedAt = time.Now()
	cp := *req
	r.requests = append(r.requests, &cp)
	return nil
}

func (r *MemoryFriendshipRepository) GetFriendRequestByID(id uint) (*models.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ID == id {
			cp := *req
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryFriendshipRepository) GetFriendRequest(fromUserID, toUserID uint) (*models.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.FromUserID == fromUserID && req.ToUserID == toUserID {
			cp := *req
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryFriendshipRepository) DeleteFriendRequest(fromUserID, toUserID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, req := range r.requests {
		if req.FromUserID == fromUserID && req.ToUserID == toUserID {
			r.requests = append(r.requests[:i], r.requests[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *MemoryFriendshipRepository) DeleteFriendRequestByID(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, req := range r.requests {
		if req.ID == id {
			r.requests = append(r.requests[:i], r.requests[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *MemoryFriendshipRepository) GetIncomingRequesterIDs(toUserID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, req := range r.requests {
		if req.ToUserID == toUserID {
			ids = append(ids, req.FromUserID)
		}
	}
	return ids, nil
}

func (r *MemoryFriendshipRepository) GetOutgoingRequestIDs(fromUserID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, req := range r.requests {
		if req.FromUserID == fromUserID {
			ids = append(ids, req.ToUserID)
		}
	}
	return ids, nil
}

func (r *MemoryFriendshipRepository) CreateFriendship(userID, friendID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.friendships = append(r.friendships,
		&models.Friendship{UserID: userID, FriendID: friendID},
		&models.Friendship{UserID: friendID, FriendID: userID},
	)
	return nil
}

func (r *MemoryFriendshipRepository) DeleteFriendship(userID, friendID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := false
	kept := r.friendships[:0]
	for _, f := range r.friendships {
		if (f.UserID == userID && f.FriendID == friendID) || (f.UserID == friendID && f.FriendID == userID) {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	r.friendships = kept
	if !removed {
		return fmt.Errorf("friendship not found")
	}
	return nil
}

func (r *MemoryFriendshipRepository) AreFriends(userID, friendID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.friendships {
		if f.UserID == userID && f.FriendID == friendID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryFriendshipRepository) GetFriendIDs(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, f := range r.friendships {
		if f.UserID == userID {
			ids = append(ids, f.FriendID)
		}
	}
	return ids, nil
}

func (r *MemoryFriendshipRepository) GetFriendsCount(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, f := range r.friendships {
		if f.UserID == userID {
			count++
		}
	}
	return count, nil
}

// MemoryNotificationRepository implements NotificationRepository in memory
type MemoryNotificationRepository struct {
	mu            sync.Mutex
	notifications []*models.Notification
	nextID        uint
}

// NewMemoryNotificationRepository creates an empty MemoryNotificationRepository
func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{nextID: 1}
}

func (r *MemoryNotificationRepository) CreateNotification(n *models.Notification) error {
	if n.SenderID == n.RecipientID {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = r.nextID
	r.nextID++
	n.CreatedAt = time.Now()
	cp := *n
	r.notifications = append(r.notifications, &cp)
	return nil
}

func (r *MemoryNotificationRepository) GetNotificationsByRecipient(recipientID uint, limit int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var notifications []models.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].RecipientID != recipientID {
			continue
		}
		notifications = append(notifications, *r.notifications[i])
		if limit > 0 && len(notifications) >= limit {
			break
		}
	}
	return notifications, nil
}

func (r *MemoryNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *MemoryNotificationRepository) MarkRead(id, recipientID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *MemoryNotificationRepository) MarkAllRead(recipientID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *MemoryNotificationRepository) DeleteNotification(id, recipientID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *MemoryNotificationRepository) DeleteAllByRecipient(recipientID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

// MemoryConversationRepository implements ConversationRepository in memory
type MemoryConversationRepository struct {
	mu            sync.Mutex
	conversations []*models.Conversation
	nextID        uint
}

// NewMemoryConversationRepository creates an empty MemoryConversationRepository
func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{nextID: 1}
}

func (r *MemoryConversationRepository) CreateConversation(c *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID
	r.nextID++
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	cp := *c
	r.conversations = append(r.conversations, &cp)
	return nil
}

func (r *MemoryConversationRepository) GetConversationByID(id uint) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryConversationRepository) GetConversationByParticipants(userA, userB uint) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		if (c.UserAID == userA && c.UserBID == userB) || (c.UserAID == userB && c.UserBID == userA) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryConversationRepository) GetConversationsByUserID(userID uint) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var conversations []models.Conversation
	for _, c := range r.conversations {
		if c.UserAID == userID || c.UserBID == userID {
			conversations = append(conversations, *c)
		}
	}
	// most recently active first
	for i := 1; i < len(conversations); i++ {
		for j := i; j > 0 && conversations[j].UpdatedAt.After(conversations[j-1].UpdatedAt); j-- {
			conversations[j], conversations[j-1] = conversations[j-1], conversations[j]
		}
	}
	return conversations, nil
}

func (r *MemoryConversationRepository) TouchConversation(id uint, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		if c.ID == id {
			c.UpdatedAt = t
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// MemoryMessageRepository implements MessageRepository in memory
type MemoryMessageRepository struct {
	mu       sync.Mutex
	messages []*models.Message
}

// NewMemoryMessageRepository creates an empty MemoryMessageRepository
func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{}
}

func (r *MemoryMessageRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	cp := *msg
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *MemoryMessageRepository) GetMessageByID(ctx context.Context, id string) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID.Hex() == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("message not found")
}

func (r *MemoryMessageRepository) GetMessagesByConversationID(ctx context.Context, conversationID uint) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var messages []models.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			messages = append(messages, *m)
		}
	}
	return messages, nil
}

func (r *MemoryMessageRepository) GetLastMessage(ctx context.Context, conversationID uint) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *models.Message
	for _, m := range r.messages {
		if m.ConversationID != conversationID {
			continue
		}
		if last == nil || !m.CreatedAt.Before(last.CreatedAt) {
			last = m
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (r *MemoryMessageRepository) CountUnread(ctx context.Context, conversationID, readerID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID && !m.IsRead && m.SenderID != readerID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryMessageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID {
			m.IsRead = true
		}
	}
	return nil
}

func (r *MemoryMessageRepository) DeleteMessage(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.ID.Hex() == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("message not found")
}

// MemoryTokenRepository implements TokenRepository in memory
type MemoryTokenRepository struct {
	mu     sync.Mutex
	tokens map[uint]tokenEntry
}

type tokenEntry struct {
	token     string
	expiresAt time.Time
}

// NewMemoryTokenRepository creates an empty MemoryTokenRepository
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{tokens: make(map[uint]tokenEntry)}
}

func (r *MemoryTokenRepository) StoreRefreshToken(ctx context.Context, userID uint, token string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[userID] = tokenEntry{token: token, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (r *MemoryTokenRepository) IsRefreshTokenValid(ctx context.Context, userID uint, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.tokens[userID]
	if !ok || time.Now().After(entry.expiresAt) {
		return false, nil
	}
	return entry.token == token, nil
}

func (r *MemoryTokenRepository) RevokeRefreshTokens(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, userID)
	return nil
}
