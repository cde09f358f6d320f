package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/socialconnect-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeededDemoAccount(t *testing.T) {
	repos := NewMemoryRepositories()

	demo, err := repos.Users.GetUserByEmail("demo@socialconnect.com")
	require.NoError(t, err)
	assert.Equal(t, "demouser", demo.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(demo.Password), []byte("demo123")))

	friends, err := repos.Friendships.GetFriendIDs(demo.ID)
	require.NoError(t, err)
	assert.Len(t, friends, 4)
}

func TestSeededConversationsOrderedAndUnread(t *testing.T) {
	repos := NewMemoryRepositories()
	ctx := context.Background()

	demo, err := repos.Users.GetUserByEmail("demo@socialconnect.com")
	require.NoError(t, err)

	convs, err := repos.Conversations.GetConversationsByUserID(demo.ID)
	require.NoError(t, err)
	require.Len(t, convs, 4)

	// Most recently messaged thread sits on top
	for i := 1; i < len(convs); i++ {
		assert.False(t, convs[i-1].UpdatedAt.Before(convs[i].UpdatedAt))
	}

	unreads := make([]int64, len(convs))
	for i, conv := range convs {
		n, err := repos.Messages.CountUnread(ctx, conv.ID, demo.ID)
		require.NoError(t, err)
		unreads[i] = n
	}
	assert.Equal(t, []int64{2, 0, 1, 0}, unreads)
}

func TestMemoryPostsNewestFirst(t *testing.T) {
	repos := NewEmptyMemoryRepositories()
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		require.NoError(t, repos.Posts.CreatePost(ctx, &models.Post{UserID: 1, Content: content}))
	}

	posts, err := repos.Posts.GetAllPosts(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "three", posts[0].Content)
	assert.Equal(t, "one", posts[2].Content)

	// skip/limit slice the same ordering
	page, err := repos.Posts.GetAllPosts(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "two", page[0].Content)
}

func TestMemoryUserDuplicateKeys(t *testing.T) {
	repos := NewEmptyMemoryRepositories()

	first := &models.User{Username: "janedoe", Email: "jane@example.com", Password: "x"}
	require.NoError(t, repos.Users.CreateUser(first))

	dupEmail := &models.User{Username: "other", Email: "jane@example.com", Password: "x"}
	err := repos.Users.CreateUser(dupEmail)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")

	dupUsername := &models.User{Username: "janedoe", Email: "other@example.com", Password: "x"}
	err = repos.Users.CreateUser(dupUsername)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
}

func TestMemoryTokenLifecycle(t *testing.T) {
	repos := NewEmptyMemoryRepositories()
	ctx := context.Background()

	require.NoError(t, repos.Tokens.StoreRefreshToken(ctx, 1, "tok-abc", time.Hour))

	valid, err := repos.Tokens.IsRefreshTokenValid(ctx, 1, "tok-abc")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = repos.Tokens.IsRefreshTokenValid(ctx, 1, "tok-other")
	require.NoError(t, err)
	assert.False(t, valid)

	require.NoError(t, repos.Tokens.RevokeRefreshTokens(ctx, 1))
	valid, err = repos.Tokens.IsRefreshTokenValid(ctx, 1, "tok-abc")
	require.NoError(t, err)
	assert.False(t, valid)
}
