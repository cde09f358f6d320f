package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileHandler(t *testing.T, repos *repositories.Repositories) *ProfileHandler {
	t.Helper()
	return NewProfileHandler(repos.Users, repos.Posts, repos.Likes, repos.Shares, repos.Blocks, repos.Friendships, newTestStorage(t))
}

func TestUpdateProfileRoundtrip(t *testing.T) {
	repos := newTestRepos()
	user := createTestUser(t, repos, "janedoe", "jane@example.com")
	h := newProfileHandler(t, repos)

	body := `{"bio":"gopher","work":"Acme","education":"State U","location":"Berlin","hometown":"Hamburg","website":"https://jane.example.com","relationship_status":"single"}`
	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodPut, "/api/profile/", body), rec, user)

	require.NoError(t, h.UpdateProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := repos.Users.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "gopher", stored.Bio)
	assert.Equal(t, "Acme", stored.Work)
	assert.Equal(t, "State U", stored.Education)
	assert.Equal(t, "Berlin", stored.Location)
	assert.Equal(t, "Hamburg", stored.Hometown)
	assert.Equal(t, "https://jane.example.com", stored.Website)
	assert.Equal(t, "single", stored.RelationshipStatus)

	// The response user mirrors the store; the edit form re-reads from it
	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, stored.Bio, resp.User.Bio)
}

func TestUpdateProfileRejectsBadWebsite(t *testing.T) {
	repos := newTestRepos()
	user := createTestUser(t, repos, "janedoe", "jane@example.com")
	h := newProfileHandler(t, repos)

	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodPut, "/api/profile/", `{"website":"not a url"}`), rec, user)

	err := h.UpdateProfile(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestProfileCountsRow(t *testing.T) {
	repos := newTestRepos()
	user := createTestUser(t, repos, "janedoe", "jane@example.com")
	friend := createTestUser(t, repos, "friend", "friend@example.com")
	require.NoError(t, repos.Friendships.CreateFriendship(user.ID, friend.ID))

	createTestPost(t, repos, user.ID, "text only")
	post := &models.Post{
		UserID:     user.ID,
		Content:    "with photo",
		Attachment: &models.PostAttachment{URL: "/media/posts/p.jpg", Kind: models.AttachmentImage},
	}
	require.NoError(t, repos.Posts.CreatePost(context.Background(), post))

	h := newProfileHandler(t, repos)
	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodGet, "/api/profile/", ""), rec, user)
	require.NoError(t, h.GetOwnProfile(c))

	var body struct {
		Counts struct {
			Friends int `json:"friends"`
			Photos  int `json:"photos"`
			Posts   int `json:"posts"`
		} `json:"counts"`
		IsOwn bool `json:"is_own"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Counts.Friends)
	assert.Equal(t, 1, body.Counts.Photos)
	assert.Equal(t, 2, body.Counts.Posts)
	assert.True(t, body.IsOwn)
}

func TestBlockedProfileInvisibleBothWays(t *testing.T) {
	repos := newTestRepos()
	alice := createTestUser(t, repos, "alice", "alice@example.com")
	bob := createTestUser(t, repos, "bob", "bob@example.com")
	require.NoError(t, repos.Blocks.CreateBlock(&models.Block{BlockerID: alice.ID, BlockedID: bob.ID}))
	h := newProfileHandler(t, repos)

	view := func(viewer *models.User, username string) error {
		rec := httptest.NewRecorder()
		c := newContext(jsonRequest(http.MethodGet, "/api/profile/"+username+"/", ""), rec, viewer)
		c.SetParamNames("username")
		c.SetParamValues(username)
		return h.GetProfile(c)
	}

	err := view(alice, "bob")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)

	err = view(bob, "alice")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)
}

func TestBlockRemovesFriendship(t *testing.T) {
	repos := newTestRepos()
	alice := createTestUser(t, repos, "alice", "alice@example.com")
	bob := createTestUser(t, repos, "bob", "bob@example.com")
	require.NoError(t, repos.Friendships.CreateFriendship(alice.ID, bob.ID))
	h := newProfileHandler(t, repos)

	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodPost, "/api/block/bob/", ""), rec, alice)
	c.SetParamNames("username")
	c.SetParamValues("bob")
	require.NoError(t, h.BlockUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	friends, err := repos.Friendships.AreFriends(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, friends)

	blocked, err := repos.Blocks.HasBlocked(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestUploadProfilePhotoRequiresImage(t *testing.T) {
	repos := newTestRepos()
	user := createTestUser(t, repos, "janedoe", "jane@example.com")
	h := newProfileHandler(t, repos)

	req := multipartRequest(t, http.MethodPost, "/api/profile/photo/",
		nil, "photo", "resume.pdf", "application/pdf",
		bytes.NewReader([]byte("%PDF-")))
	rec := httptest.NewRecorder()
	c := newContext(req, rec, user)

	err := h.UploadProfilePhoto(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)

	stored, err := repos.Users.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ProfilePhotoURL)
}
