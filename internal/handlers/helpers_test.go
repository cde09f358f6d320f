package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
	"github.com/socialconnect-app/backend/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

func newTestRepos() *repositories.Repositories {
	return repositories.NewEmptyMemoryRepositories()
}

func newTestStorage(t *testing.T) storage.Storage {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	return store
}

func createTestUser(t *testing.T, repos *repositories.Repositories, username, email string) *models.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		FirstName:  username,
		LastName:   "Tester",
		Username:   username,
		Email:      email,
		Password:   string(hash),
		LastActive: time.Now(),
	}
	if err := repos.Users.CreateUser(user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestPost(t *testing.T, repos *repositories.Repositories, userID uint, content string) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, Content: content}
	if err := repos.Posts.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

// newContext builds an echo context authenticated as the given user.
// Pass nil user for anonymous requests.
func newContext(req *http.Request, rec *httptest.ResponseRecorder, user *models.User) echo.Context {
	e := echo.New()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set("user", &models.JwtCustomClaims{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	}
	return c
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

// multipartRequest builds a multipart form with text fields and an optional
// file part carrying an explicit content type.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileField, fileName, fileType string, fileContent io.Reader) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}
	if fileField != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+fileName+`"`)
		header.Set("Content-Type", fileType)
		part, err := w.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		if _, err := io.Copy(part, fileContent); err != nil {
			t.Fatalf("failed to write file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}
