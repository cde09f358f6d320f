package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostHandler(t *testing.T, repos *repositories.Repositories) *PostHandler {
	t.Helper()
	return NewPostHandler(repos.Posts, repos.Comments, repos.Likes, repos.Shares, repos.Reports, newTestStorage(t))
}

func TestCreatePostWhitespaceOnlyRejected(t *testing.T) {
	repos := newTestRepos()
	user := createTestUser(t, repos, "author", "author@example.com")
	h := newPostHandler(t, repos)

	rec := httptest.NewRecorder()
	c := newContext(formRequest(http.MethodPost, "/api/posts/", url.Values{"content": {"   \n\t  "}}), rec, user)

	err := h.CreatePost(c)
	require.Error(t, err)
	httpErr := err.(*echo.HTTPError)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	count, err := repos.Posts.CountPosts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreatePostOversizedFileRejected(t *testing.T) {
	repos := newTestRepos()
	user := createTestUser(t, repos, "author", "author@example.com")
	h := newPostHandler(t, repos)

	big := bytes.NewReader(make([]byte, maxUploadSize+1))
	req := multipartRequest(t, http.MethodPost, "/api/posts/",
		map[string]string{"content": "look at this"}, "media", "huge.jpg", "image/jpeg", big)

	rec := httptest.NewRecorder()
	c := newContext(req, rec, user)

	err := h.CreatePost(c)
	require.Error(t, err)
	httpErr := err.(*echo.HTTPError)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, "File too large (Max 10MB)", httpErr.Message)

	count, err := repos.Posts.CountPosts(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreatePostWithImageAttachment(t *testing.T) {
	repos := newTestRepos()
	user := createTestUser(t, repos, "author", "author@example.com")
	h := newPostHandler(t, repos)

	req := multipartRequest(t, http.MethodPost, "/api/posts/",
		map[string]string{"content": "sunset"}, "media", "sunset.jpg", "image/jpeg",
		bytes.NewReader([]byte("fake image bytes")))

	rec := httptest.NewRecorder()
	c := newContext(req, rec, user)

	require.NoError(t, h.CreatePost(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	require.NotNil(t, post.Attachment)
	assert.Equal(t, models.AttachmentImage, post.Attachment.Kind)
	assert.NotEmpty(t, post.Attachment.URL)
	assert.Zero(t, post.LikesCount)
	assert.Zero(t, post.CommentsCount)
	assert.Zero(t, post.SharesCount)
}

func TestCreatePostUnsupportedMediaRejected(t *testing.T) {
	repos := newTestRepos()
	user := createTestUser(t, repos, "author", "author@example.com")
	h := newPostHandler(t, repos)

	req := multipartRequest(t, http.MethodPost, "/api/posts/",
		map[string]string{"content": "notes"}, "media", "notes.pdf", "application/pdf",
		bytes.NewReader([]byte("%PDF-")))

	rec := httptest.NewRecorder()
	c := newContext(req, rec, user)

	err := h.CreatePost(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestDeletePostOwnerOnly(t *testing.T) {
	repos := newTestRepos()
	author := createTestUser(t, repos, "author", "author@example.com")
	other := createTestUser(t, repos, "other", "other@example.com")
	post := createTestPost(t, repos, author.ID, "mine")
	h := newPostHandler(t, repos)

	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodDelete, "/api/posts/"+post.ID.Hex()+"/", ""), rec, other)
	c.SetParamNames("post_id")
	c.SetParamValues(post.ID.Hex())

	err := h.DeletePost(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)

	// Still there
	_, err = repos.Posts.GetPostByID(context.Background(), post.ID.Hex())
	assert.NoError(t, err)

	rec = httptest.NewRecorder()
	c = newContext(jsonRequest(http.MethodDelete, "/api/posts/"+post.ID.Hex()+"/", ""), rec, author)
	c.SetParamNames("post_id")
	c.SetParamValues(post.ID.Hex())

	require.NoError(t, h.DeletePost(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err = repos.Posts.GetPostByID(context.Background(), post.ID.Hex())
	assert.Error(t, err)
}

func TestReportPostOncePerUser(t *testing.T) {
	repos := newTestRepos()
	author := createTestUser(t, repos, "author", "author@example.com")
	reporter := createTestUser(t, repos, "reporter", "reporter@example.com")
	post := createTestPost(t, repos, author.ID, "spam maybe")
	h := newPostHandler(t, repos)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		c := newContext(jsonRequest(http.MethodPost, "/api/posts/"+post.ID.Hex()+"/report/", `{"reason":"spam"}`), rec, reporter)
		c.SetParamNames("post_id")
		c.SetParamValues(post.ID.Hex())
		require.NoError(t, h.ReportPost(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	count, err := repos.Reports.GetReportsCountByPostID(post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
