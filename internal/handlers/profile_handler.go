package handlers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
	"github.com/socialconnect-app/backend/internal/storage"
)

// ProfileHandler handles profile pages, profile editing, photo uploads and
// blocking
type ProfileHandler struct {
	userRepository       repositories.UserRepository
	postRepository       repositories.PostRepository
	likeRepository       repositories.LikeRepository
	shareRepository      repositories.ShareRepository
	blockRepository      repositories.BlockRepository
	friendshipRepository repositories.FriendshipRepository
	storage              storage.Storage
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	shareRepo repositories.ShareRepository,
	blockRepo repositories.BlockRepository,
	friendshipRepo repositories.FriendshipRepository,
	store storage.Storage,
) *ProfileHandler {
	return &ProfileHandler{
		userRepository:       userRepo,
		postRepository:       postRepo,
		likeRepository:       likeRepo,
		shareRepository:      shareRepo,
		blockRepository:      blockRepo,
		friendshipRepository: friendshipRepo,
		storage:              store,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile/", h.GetOwnProfile)
	g.GET("/profile/:username/", h.GetProfile)
	g.PUT("/profile/", h.UpdateProfile)
	g.POST("/profile/photo/", h.UploadProfilePhoto)
	g.POST("/profile/cover/", h.UploadCoverPhoto)
	g.POST("/block/:username/", h.BlockUser)
	g.POST("/unblock/:username/", h.UnblockUser)
	g.GET("/blocked-users/", h.GetBlockedUsers)
}

// SharedPostView is a shared post on a profile: the post plus the share's
// caption and time.
type SharedPostView struct {
	EnrichedPost
	Caption  string `json:"caption"`
	SharedAt string `json:"shared_at"`
}

// GetOwnProfile returns the authenticated user's profile page payload
func (h *ProfileHandler) GetOwnProfile(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return h.profileResponse(c, user, userID)
}

// GetProfile returns another user's profile page payload. Profiles blocked
// in either direction are invisible, as if the account did not exist.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	username := c.Param("username")

	user, err := h.userRepository.GetUserByUsername(username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if user.ID != currentUserID {
		blocked, err := h.blockRepository.IsBlocked(currentUserID, user.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if blocked {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
	}

	return h.profileResponse(c, user, currentUserID)
}

func (h *ProfileHandler) profileResponse(c echo.Context, user *models.User, viewerID uint) error {
	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), user.ID, 0, 100)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The counts row: friends / photos / posts
	friendsCount, _ := h.friendshipRepository.GetFriendsCount(user.ID)
	photosCount := 0
	for _, p := range posts {
		if p.Attachment != nil && p.Attachment.Kind == models.AttachmentImage {
			photosCount++
		}
	}

	enriched := make([]EnrichedPost, len(posts))
	author := user.ToCompact()
	for i, p := range posts {
		pid := p.ID.Hex()
		liked, _ := h.likeRepository.HasUserLikedPost(pid, viewerID)
		shared, _ := h.shareRepository.HasUserSharedPost(pid, viewerID)
		enriched[i] = EnrichedPost{Post: p, Author: author, IsLiked: liked, IsShared: shared}
	}

	sharedPosts := h.sharedPostViews(c, user.ID, viewerID)

	isFriend := false
	requestSent := false
	requestReceived := false
	hasBlocked := false
	if viewerID != user.ID {
		isFriend, _ = h.friendshipRepository.AreFriends(viewerID, user.ID)
		if _, err := h.friendshipRepository.GetFriendRequest(viewerID, user.ID); err == nil {
			requestSent = true
		}
		if _, err := h.friendshipRepository.GetFriendRequest(user.ID, viewerID); err == nil {
			requestReceived = true
		}
		hasBlocked, _ = h.blockRepository.HasBlocked(viewerID, user.ID)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": user,
		"counts": echo.Map{
			"friends": friendsCount,
			"photos":  photosCount,
			"posts":   len(posts),
		},
		"posts":            enriched,
		"shared_posts":     sharedPosts,
		"is_own":           viewerID == user.ID,
		"is_friend":        isFriend,
		"request_sent":     requestSent,
		"request_received": requestReceived,
		"is_blocked":       hasBlocked,
	})
}

func (h *ProfileHandler) sharedPostViews(c echo.Context, userID, viewerID uint) []SharedPostView {
	shares, err := h.shareRepository.GetSharesByUserID(userID)
	if err != nil {
		return nil
	}
	views := make([]SharedPostView, 0, len(shares))
	for _, share := range shares {
		post, err := h.postRepository.GetPostByID(c.Request().Context(), share.PostID)
		if err != nil {
			continue
		}
		var author models.UserCompact
		if originalAuthor, err := h.userRepository.GetUserByID(post.UserID); err == nil {
			author = originalAuthor.ToCompact()
		}
		liked, _ := h.likeRepository.HasUserLikedPost(share.PostID, viewerID)
		shared, _ := h.shareRepository.HasUserSharedPost(share.PostID, viewerID)
		views = append(views, SharedPostView{
			EnrichedPost: EnrichedPost{Post: *post, Author: author, IsLiked: liked, IsShared: shared},
			Caption:      share.Caption,
			SharedAt:     relativeTime(share.CreatedAt),
		})
	}
	return views
}

// UpdateProfile writes the editable profile fields and returns the stored
// user; the edit form re-reads its state from this response.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	user.Bio = req.Bio
	user.Work = req.Work
	user.Education = req.Education
	user.Location = req.Location
	user.Hometown = req.Hometown
	user.Website = req.Website
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	user.RelationshipStatus = req.RelationshipStatus

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// UploadProfilePhoto stores a new profile photo plus a 320px thumbnail
func (h *ProfileHandler) UploadProfilePhoto(c echo.Context) error {
	return h.uploadPhoto(c, "avatars", func(user *models.User, url string) {
		user.ProfilePhotoURL = url
	}, true)
}

// UploadCoverPhoto stores a new cover photo
func (h *ProfileHandler) UploadCoverPhoto(c echo.Context) error {
	return h.uploadPhoto(c, "covers", func(user *models.User, url string) {
		user.CoverPhotoURL = url
	}, false)
}

func (h *ProfileHandler) uploadPhoto(c echo.Context, dir string, assign func(*models.User, string), thumbnail bool) error {
	userID := getUserIDFromContext(c)

	file, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No photo provided")
	}
	if file.Size > maxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "File too large (Max 10MB)")
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return echo.NewHTTPError(http.StatusBadRequest, "Only image files are allowed")
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	url, err := h.storage.Save(file, dir)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store upload")
	}

	thumbnailURL := ""
	if thumbnail {
		if src, err := file.Open(); err == nil {
			if data, err := storage.Thumbnail(src); err == nil {
				thumbnailURL, _ = h.storage.SaveBytes(data, dir+"/thumbs", ".jpg")
			}
			src.Close()
		}
	}

	assign(user, url)
	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := echo.Map{"success": true, "url": url, "user": user}
	if thumbnailURL != "" {
		resp["thumbnail_url"] = thumbnailURL
	}
	return c.JSON(http.StatusOK, resp)
}

// BlockUser blocks another user. Blocking removes any friendship; from then
// on neither side sees the other's profile or posts.
func (h *ProfileHandler) BlockUser(c echo.Context) error {
	userID := getUserIDFromContext(c)
	username := c.Param("username")

	target, err := h.userRepository.GetUserByUsername(username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if target.ID == userID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot block yourself")
	}

	already, err := h.blockRepository.HasBlocked(userID, target.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !already {
		if err := h.blockRepository.CreateBlock(&models.Block{BlockerID: userID, BlockedID: target.ID}); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	// Blocking and friendship are mutually exclusive
	_ = h.friendshipRepository.DeleteFriendship(userID, target.ID)
	_ = h.friendshipRepository.DeleteFriendRequest(userID, target.ID)
	_ = h.friendshipRepository.DeleteFriendRequest(target.ID, userID)

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UnblockUser removes the caller's block on another user
func (h *ProfileHandler) UnblockUser(c echo.Context) error {
	userID := getUserIDFromContext(c)
	username := c.Param("username")

	target, err := h.userRepository.GetUserByUsername(username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if err := h.blockRepository.DeleteBlock(userID, target.ID); err != nil {
		if err.Error() == "block not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Block not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetBlockedUsers lists the users the caller has blocked
func (h *ProfileHandler) GetBlockedUsers(c echo.Context) error {
	userID := getUserIDFromContext(c)

	blocks, err := h.blockRepository.GetBlockedUsers(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	users := make([]models.UserCompact, 0, len(blocks))
	for _, block := range blocks {
		if user, err := h.userRepository.GetUserByID(block.BlockedID); err == nil {
			users = append(users, user.ToCompact())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"blocked_users": users})
}
