package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID:   7,
		Username: "janedoe",
		Email:    "jane@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runMiddleware(authHeader string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/feed/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	handler := JWTAuthMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	_, err := runMiddleware("")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	for _, header := range []string{"Bearer", "Token abc", "Bearer a b"} {
		_, err := runMiddleware(header)
		require.Error(t, err, "header %q", header)
		assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
	}
}

func TestJWTAuthGarbageToken(t *testing.T) {
	_, err := runMiddleware("Bearer not.a.token")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	token := signTestToken(t, "some-other-secret", time.Now().Add(time.Hour))

	_, err := runMiddleware("Bearer " + token)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	token := signTestToken(t, "supersecretjwtkey", time.Now().Add(-time.Hour))

	_, err := runMiddleware("Bearer " + token)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestJWTAuthValidTokenSetsClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	token := signTestToken(t, "supersecretjwtkey", time.Now().Add(time.Hour))

	c, err := runMiddleware("Bearer " + token)
	require.NoError(t, err)

	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	require.True(t, ok)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "janedoe", claims.Username)
}

func TestPresenceStampsLastActive(t *testing.T) {
	repos := repositories.NewEmptyMemoryRepositories()
	user := &models.User{Username: "janedoe", Email: "jane@example.com", Password: "x"}
	require.NoError(t, repos.Users.CreateUser(user))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/feed/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("user", &models.JwtCustomClaims{UserID: user.ID, Username: user.Username})

	before := time.Now()
	handler := Presence(repos.Users)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	stored, err := repos.Users.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.False(t, stored.LastActive.Before(before))
}
