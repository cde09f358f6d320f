package repositories

import (
	"context"
	"time"

	"github.com/socialconnect-app/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Repositories bundles every data dependency the handlers need, so the
// router can wire either the database-backed set or the in-memory demo set.
type Repositories struct {
	Users         UserRepository
	Posts         PostRepository
	Comments      CommentRepository
	Likes         LikeRepository
	Shares        ShareRepository
	Reports       ReportRepository
	Blocks        BlockRepository
	Friendships   FriendshipRepository
	Notifications NotificationRepository
	Conversations ConversationRepository
	Messages      MessageRepository
	Tokens        TokenRepository
}

// NewMemoryRepositories builds the full in-memory repository set, seeded
// with a demo account and sample activity so the app is usable without any
// database. Sign in with demo@socialconnect.com / demo123.
func NewMemoryRepositories() *Repositories {
	repos := &Repositories{
		Users:         NewMemoryUserRepository(),
		Posts:         NewMemoryPostRepository(),
		Comments:      NewMemoryCommentRepository(),
		Likes:         NewMemoryLikeRepository(),
		Shares:        NewMemoryShareRepository(),
		Reports:       NewMemoryReportRepository(),
		Blocks:        NewMemoryBlockRepository(),
		Friendships:   NewMemoryFriendshipRepository(),
		Notifications: NewMemoryNotificationRepository(),
		Conversations: NewMemoryConversationRepository(),
		Messages:      NewMemoryMessageRepository(),
		Tokens:        NewMemoryTokenRepository(),
	}
	seedDemoData(repos)
	return repos
}

// NewEmptyMemoryRepositories builds the in-memory set without seed data
func NewEmptyMemoryRepositories() *Repositories {
	return &Repositories{
		Users:         NewMemoryUserRepository(),
		Posts:         NewMemoryPostRepository(),
		Comments:      NewMemoryCommentRepository(),
		Likes:         NewMemoryLikeRepository(),
		Shares:        NewMemoryShareRepository(),
		Reports:       NewMemoryReportRepository(),
		Blocks:        NewMemoryBlockRepository(),
		Friendships:   NewMemoryFriendshipRepository(),
		Notifications: NewMemoryNotificationRepository(),
		Conversations: NewMemoryConversationRepository(),
		Messages:      NewMemoryMessageRepository(),
		Tokens:        NewMemoryTokenRepository(),
	}
}

type seedContact struct {
	firstName   string
	lastName    string
	username    string
	email       string
	lastActive  time.Duration // how long ago they were last seen
	lastMessage string
	messagedAgo time.Duration
	unread      int
}

func seedDemoData(repos *Repositories) {
	ctx := context.Background()
	now := time.Now()

	hash, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	demo := &models.User{
		FirstName:  "Demo",
		LastName:   "User",
		Username:   "demouser",
		Email:      "demo@socialconnect.com",
		Password:   string(hash),
		Bio:        "Exploring Social Connect",
		LastActive: now,
	}
	if err := repos.Users.CreateUser(demo); err != nil {
		return
	}

	contacts := []seedContact{
		{
			firstName: "Shehab", lastName: "Hamed", username: "shehab", email: "shehab@socialconnect.com",
			lastActive:  time.Minute,
			lastMessage: "Hey! How are you doing?", messagedAgo: 30 * time.Minute, unread: 2,
		},
		{
			firstName: "Brad", lastName: "Bitt", username: "bradbitt", email: "brad@socialconnect.com",
			lastActive:  3 * time.Hour,
			lastMessage: "Thanks for sharing that article!", messagedAgo: 2 * time.Hour,
		},
		{
			firstName: "Robert", lastName: "D Junior", username: "robertdj", email: "robert@socialconnect.com",
			lastActive:  time.Minute,
			lastMessage: "See you at the meeting tomorrow", messagedAgo: 4 * time.Hour, unread: 1,
		},
		{
			firstName: "Raphinha", lastName: "Dias", username: "raphinha", email: "raphinha@socialconnect.com",
			lastActive:  26 * time.Hour,
			lastMessage: "Great job on the presentation!", messagedAgo: 24 * time.Hour,
		},
	}

	for _, contact := range contacts {
		user := &models.User{
			FirstName:  contact.firstName,
			LastName:   contact.lastName,
			Username:   contact.username,
			Email:      contact.email,
			Password:   string(hash),
			LastActive: now.Add(-contact.lastActive),
		}
		if err := repos.Users.CreateUser(user); err != nil {
			continue
		}
		_ = repos.Friendships.CreateFriendship(demo.ID, user.ID)

		conv := &models.Conversation{UserAID: demo.ID, UserBID: user.ID}
		conv.CreatedAt = now.Add(-contact.messagedAgo - time.Hour)
		conv.UpdatedAt = now.Add(-contact.messagedAgo)
		if err := repos.Conversations.CreateConversation(conv); err != nil {
			continue
		}

		// earlier unread messages precede the latest one
		for i := contact.unread - 1; i > 0; i-- {
			_ = repos.Messages.CreateMessage(ctx, &models.Message{
				ConversationID: conv.ID,
				SenderID:       user.ID,
				Content:        "Are you around?",
				IsRead:         false,
				CreatedAt:      now.Add(-contact.messagedAgo - time.Duration(i)*5*time.Minute),
			})
		}
		_ = repos.Messages.CreateMessage(ctx, &models.Message{
			ConversationID: conv.ID,
			SenderID:       user.ID,
			Content:        contact.lastMessage,
			IsRead:         contact.unread == 0,
			CreatedAt:      now.Add(-contact.messagedAgo),
		})
	}

	seedPosts := []struct {
		userID  uint
		content string
	}{
		{5, "Just wrapped up an amazing week. Grateful for this community!"},
		{3, "Reading about distributed systems tonight. Any book recommendations?"},
		{2, "Beautiful sunrise this morning. Sometimes you just have to stop and look up."},
	}
	for _, sp := range seedPosts {
		_ = repos.Posts.CreatePost(ctx, &models.Post{UserID: sp.userID, Content: sp.content})
	}
}
