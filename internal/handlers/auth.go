package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = time.Hour * 72
	refreshTokenTTL = time.Hour * 24 * 7
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository  repositories.UserRepository
	tokenRepository repositories.TokenRepository
	jwtSecret       string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository) *AuthHandler {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
	}
	return &AuthHandler{
		userRepository:  userRepo,
		tokenRepository: tokenRepo,
		jwtSecret:       jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes. The public
// group takes register/login/refresh; logout needs a bearer token.
func (h *AuthHandler) RegisterAuthRoutes(public, protected *echo.Group) {
	public.POST("/register/", h.Register)
	public.POST("/login/", h.Login)
	public.POST("/refresh/", h.Refresh)
	protected.POST("/logout/", h.Logout)
}

// Register handles signup from the multipart registration form
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	// The password length check runs before anything touches the store, and
	// its message matches the signup form's inline error exactly.
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"password": []string{"Password must be at least 6 characters"},
		})
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Duplicate checks produce field-keyed errors the signup page maps onto
	// its inputs.
	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"email": []string{"A user with this email already exists."},
		})
	}
	if _, err := h.userRepository.GetUserByUsername(req.Username); err == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"username": []string{"A user with this username already exists."},
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Username:    req.Username,
		Password:    string(hashedPassword),
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		LastActive:  time.Now(),
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	tokens, err := h.generateTokenPair(c, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}

	return c.JSON(http.StatusCreated, echo.Map{"tokens": tokens, "user": user})
}

// Login handles authentication with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Wrong email and wrong password answer identically
	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"non_field_errors": []string{"Invalid credentials"},
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"non_field_errors": []string{"Invalid credentials"},
		})
	}

	now := time.Now()
	if err := h.userRepository.UpdateLastActive(user.ID, now); err == nil {
		user.LastActive = now
	}

	tokens, err := h.generateTokenPair(c, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"tokens": tokens, "user": user})
}

// Logout revokes the authenticated user's refresh token
func (h *AuthHandler) Logout(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	if err := h.tokenRepository.RevokeRefreshTokens(c.Request().Context(), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to revoke token")
	}

	return c.JSON(http.StatusOK, echo.Map{"detail": "Successfully logged out."})
}

// RefreshRequest defines the body for token refresh
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Refresh exchanges a stored refresh token for a new access token
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(req.Refresh, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	// A refresh token works only while it is the stored one; logout or a
	// newer login invalidates it.
	valid, err := h.tokenRepository.IsRefreshTokenValid(c.Request().Context(), claims.UserID, req.Refresh)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token revoked")
	}

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User no longer exists")
	}

	access, err := h.signToken(user, accessTokenTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"access": access})
}

// generateTokenPair issues an access/refresh pair and stores the refresh
// token so it can be revoked later
func (h *AuthHandler) generateTokenPair(c echo.Context, user *models.User) (*models.TokenPair, error) {
	access, err := h.signToken(user, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := h.signToken(user, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	if err := h.tokenRepository.StoreRefreshToken(c.Request().Context(), user.ID, refresh, refreshTokenTTL); err != nil {
		return nil, err
	}
	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}

// signToken generates a signed JWT for a given user
func (h *AuthHandler) signToken(user *models.User, ttl time.Duration) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return "", err
	}
	return t, nil
}
