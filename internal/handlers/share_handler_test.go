package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shareContext(rec *httptest.ResponseRecorder, postID, body string, user *models.User) echo.Context {
	c := newContext(jsonRequest(http.MethodPost, "/api/posts/"+postID+"/share/", body), rec, user)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)
	return c
}

func TestSharePostWithCaption(t *testing.T) {
	repos := newTestRepos()
	author := createTestUser(t, repos, "author", "author@example.com")
	sharer := createTestUser(t, repos, "sharer", "sharer@example.com")
	post := createTestPost(t, repos, author.ID, "worth sharing")
	h := NewShareHandler(repos.Shares, repos.Posts, repos.Users, repos.Blocks, repos.Notifications)

	rec := httptest.NewRecorder()
	require.NoError(t, h.SharePost(shareContext(rec, post.ID.Hex(), `{"caption":"check this out"}`, sharer)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Success    bool  `json:"success"`
		ShareCount int64 `json:"share_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(1), body.ShareCount)

	shares, err := repos.Shares.GetSharesByUserID(sharer.ID)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, "check this out", shares[0].Caption)
}

func TestShareSamePostTwiceFails(t *testing.T) {
	repos := newTestRepos()
	author := createTestUser(t, repos, "author", "author@example.com")
	sharer := createTestUser(t, repos, "sharer", "sharer@example.com")
	post := createTestPost(t, repos, author.ID, "worth sharing")
	h := NewShareHandler(repos.Shares, repos.Posts, repos.Users, repos.Blocks, repos.Notifications)

	require.NoError(t, h.SharePost(shareContext(httptest.NewRecorder(), post.ID.Hex(), `{}`, sharer)))

	err := h.SharePost(shareContext(httptest.NewRecorder(), post.ID.Hex(), `{}`, sharer))
	require.Error(t, err)
	httpErr := err.(*echo.HTTPError)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, "You have already shared this post.", httpErr.Message)

	// The failed share left the count alone
	count, err := repos.Shares.GetSharesCountByPostID(post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := repos.Posts.GetPostByID(context.Background(), post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.SharesCount)
}

func TestUnshareRestoresCount(t *testing.T) {
	repos := newTestRepos()
	author := createTestUser(t, repos, "author", "author@example.com")
	sharer := createTestUser(t, repos, "sharer", "sharer@example.com")
	post := createTestPost(t, repos, author.ID, "worth sharing")
	h := NewShareHandler(repos.Shares, repos.Posts, repos.Users, repos.Blocks, repos.Notifications)

	require.NoError(t, h.SharePost(shareContext(httptest.NewRecorder(), post.ID.Hex(), `{}`, sharer)))

	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodPost, "/api/posts/"+post.ID.Hex()+"/unshare/", ""), rec, sharer)
	c.SetParamNames("post_id")
	c.SetParamValues(post.ID.Hex())
	require.NoError(t, h.UnsharePost(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ShareCount int64 `json:"share_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Zero(t, body.ShareCount)
}

func TestBlockedUserCannotShare(t *testing.T) {
	repos := newTestRepos()
	author := createTestUser(t, repos, "author", "author@example.com")
	sharer := createTestUser(t, repos, "sharer", "sharer@example.com")
	post := createTestPost(t, repos, author.ID, "worth sharing")
	require.NoError(t, repos.Blocks.CreateBlock(&models.Block{BlockerID: author.ID, BlockedID: sharer.ID}))
	h := NewShareHandler(repos.Shares, repos.Posts, repos.Users, repos.Blocks, repos.Notifications)

	err := h.SharePost(shareContext(httptest.NewRecorder(), post.ID.Hex(), `{}`, sharer))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)
}
