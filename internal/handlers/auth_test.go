package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerForm(password string) url.Values {
	return url.Values{
		"first_name":    {"Jane"},
		"last_name":     {"Doe"},
		"email":         {"jane@example.com"},
		"username":      {"janedoe"},
		"password":      {password},
		"date_of_birth": {"1995-04-12"},
		"gender":        {"female"},
	}
}

func TestRegisterShortPasswordRejectedBeforeStore(t *testing.T) {
	repos := newTestRepos()
	h := NewAuthHandler(repos.Users, repos.Tokens)

	rec := httptest.NewRecorder()
	c := newContext(formRequest(http.MethodPost, "/api/auth/register/", registerForm("abc")), rec, nil)

	err := h.Register(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Password must be at least 6 characters"}, body["password"])

	// Nothing was written to the store
	_, err = repos.Users.GetUserByEmail("jane@example.com")
	assert.Error(t, err)
}

func TestRegisterDuplicateEmailFieldError(t *testing.T) {
	repos := newTestRepos()
	createTestUser(t, repos, "existing", "jane@example.com")
	h := NewAuthHandler(repos.Users, repos.Tokens)

	rec := httptest.NewRecorder()
	c := newContext(formRequest(http.MethodPost, "/api/auth/register/", registerForm("secret123")), rec, nil)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "email")
}

func TestRegisterSuccessReturnsTokensAndUser(t *testing.T) {
	repos := newTestRepos()
	h := NewAuthHandler(repos.Users, repos.Tokens)

	rec := httptest.NewRecorder()
	c := newContext(formRequest(http.MethodPost, "/api/auth/register/", registerForm("secret123")), rec, nil)

	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Tokens struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		} `json:"tokens"`
		User struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Tokens.Access)
	assert.NotEmpty(t, body.Tokens.Refresh)
	assert.Equal(t, "janedoe", body.User.Username)

	stored, err := repos.Users.GetUserByUsername("janedoe")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password) // hashed, never plaintext
}

func TestLoginInvalidCredentials(t *testing.T) {
	repos := newTestRepos()
	createTestUser(t, repos, "janedoe", "jane@example.com")
	h := NewAuthHandler(repos.Users, repos.Tokens)

	for _, body := range []string{
		`{"email":"jane@example.com","password":"wrongpass"}`,
		`{"email":"nobody@example.com","password":"password123"}`,
	} {
		rec := httptest.NewRecorder()
		c := newContext(jsonRequest(http.MethodPost, "/api/auth/login/", body), rec, nil)

		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp map[string][]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"Invalid credentials"}, resp["non_field_errors"])
	}
}

func TestLoginSuccess(t *testing.T) {
	repos := newTestRepos()
	user := createTestUser(t, repos, "janedoe", "jane@example.com")
	h := NewAuthHandler(repos.Users, repos.Tokens)

	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodPost, "/api/auth/login/", `{"email":"jane@example.com","password":"password123"}`), rec, nil)

	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tokens struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Tokens.Access)

	valid, err := repos.Tokens.IsRefreshTokenValid(c.Request().Context(), user.ID, body.Tokens.Refresh)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestRefreshRejectedAfterLogout(t *testing.T) {
	repos := newTestRepos()
	user := createTestUser(t, repos, "janedoe", "jane@example.com")
	h := NewAuthHandler(repos.Users, repos.Tokens)

	// Login to obtain a refresh token
	rec := httptest.NewRecorder()
	c := newContext(jsonRequest(http.MethodPost, "/api/auth/login/", `{"email":"jane@example.com","password":"password123"}`), rec, nil)
	require.NoError(t, h.Login(c))

	var body struct {
		Tokens struct {
			Refresh string `json:"refresh"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	// Refresh works while the token is stored
	rec = httptest.NewRecorder()
	c = newContext(jsonRequest(http.MethodPost, "/api/auth/refresh/", `{"refresh":"`+body.Tokens.Refresh+`"}`), rec, nil)
	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Logout revokes it
	rec = httptest.NewRecorder()
	c = newContext(jsonRequest(http.MethodPost, "/api/auth/logout/", ""), rec, user)
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c = newContext(jsonRequest(http.MethodPost, "/api/auth/refresh/", `{"refresh":"`+body.Tokens.Refresh+`"}`), rec, nil)
	err := h.Refresh(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
