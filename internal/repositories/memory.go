package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/socialconnect-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// In-memory repository implementations backing the offline demo mode. They
// satisfy the same interfaces as the PostgreSQL/MongoDB ones, so the handlers
// are identical in both modes; tests use them as doubles for the same reason.
// No data leaves process memory.

// MemoryUserRepository implements UserRepository in memory
type MemoryUserRepository struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

// NewMemoryUserRepository creates an empty MemoryUserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uint]*models.User), nextID: 1}
}

func (r *MemoryUserRepository) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("duplicate key value violates unique constraint on email")
		}
		if u.Username == user.Username {
			return fmt.Errorf("duplicate key value violates unique constraint on username")
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepository) GetUserByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) GetUserByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) GetUsers() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]models.User, 0, len(r.users))
	for id := uint(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *MemoryUserRepository) UpdateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) UpdateLastActive(id uint, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastActive = t
	return nil
}

func (r *MemoryUserRepository) DeleteUser(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *MemoryUserRepository) SearchUsers(query string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []models.User
	for id := uint(1); id < r.nextID; id++ {
		u, ok := r.users[id]
		if !ok {
			continue
		}
		if containsFold(u.Username, query) || containsFold(u.FirstName, query) ||
			containsFold(u.LastName, query) || containsFold(u.Email, query) {
			users = append(users, *u)
		}
	}
	return users, nil
}

// MemoryPostRepository implements PostRepository in memory. New posts are
// prepended so the newest-first feed order holds even for same-instant posts.
type MemoryPostRepository struct {
	mu    sync.Mutex
	posts []*models.Post
}

// NewMemoryPostRepository creates an empty MemoryPostRepository
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{}
}

func (r *MemoryPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	cp := *post
	r.posts = append([]*models.Post{&cp}, r.posts...)
	return nil
}

func (r *MemoryPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID.Hex() == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("post not found")
}

func (r *MemoryPostRepository) GetPostsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []models.Post
	for _, p := range r.posts {
		if p.UserID == userID {
			posts = append(posts, *p)
		}
	}
	return paginatePosts(posts, skip, limit), nil
}

func (r *MemoryPostRepository) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, *p)
	}
	return paginatePosts(posts, skip, limit), nil
}

func (r *MemoryPostRepository) CountPosts(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.posts)), nil
}

func (r *MemoryPostRepository) CountPostsByUserID(ctx context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.posts {
		if p.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryPostRepository) DeletePost(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.posts {
		if p.ID.Hex() == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("post not found")
}

func (r *MemoryPostRepository) IncrementLikesCount(ctx context.Context, postID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID.Hex() == postID {
			p.LikesCount += delta
			if p.LikesCount < 0 {
				p.LikesCount = 0
			}
			return nil
		}
	}
	return fmt.Errorf("post not found")
}

func (r *MemoryPostRepository) IncrementCommentsCount(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID.Hex() == postID {
			p.CommentsCount++
			return nil
		}
	}
	return fmt.Errorf("post not found")
}

func (r *MemoryPostRepository) IncrementSharesCount(ctx context.Context, postID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID.Hex() == postID {
			p.SharesCount += delta
			if p.SharesCount < 0 {
				p.SharesCount = 0
			}
			return nil
		}
	}
	return fmt.Errorf("post not found")
}

func paginatePosts(posts []models.Post, skip, limit int64) []models.Post {
	if skip >= int64(len(posts)) {
		return nil
	}
	posts = posts[skip:]
	if limit > 0 && limit < int64(len(posts)) {
		posts = posts[:limit]
	}
	return posts
}

// MemoryCommentRepository implements CommentRepository in memory
type MemoryCommentRepository struct {
	mu       sync.Mutex
	comments []*models.Comment
	nextID   uint
}

// NewMemoryCommentRepository creates an empty MemoryCommentRepository
func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{nextID: 1}
}

func (r *MemoryCommentRepository) CreateComment(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = r.nextID
	r.nextID++
	comment.CreatedAt = time.Now()
	cp := *comment
	r.comments = append(r.comments, &cp)
	return nil
}

func (r *MemoryCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.comments {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryCommentRepository) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var comments []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (r *MemoryCommentRepository) GetCommentsCountByPostID(postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryCommentRepository) DeleteComment(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.comments {
		if c.ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *MemoryCommentRepository) DeleteCommentsByPostID(postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.comments[:0]
	for _, c := range r.comments {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	r.comments = kept
	return nil
}

// MemoryLikeRepository implements LikeRepository in memory
type MemoryLikeRepository struct {
	mu    sync.Mutex
	likes map[string]map[uint]bool // postID -> userID set
}

// NewMemoryLikeRepository creates an empty MemoryLikeRepository
func NewMemoryLikeRepository() *MemoryLikeRepository {
	return &MemoryLikeRepository{likes: make(map[string]map[uint]bool)}
}

func (r *MemoryLikeRepository) CreateLike(like *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.likes[like.PostID] == nil {
		r.likes[like.PostID] = make(map[uint]bool)
	}
	if r.likes[like.PostID][like.UserID] {
		return fmt.Errorf("duplicate key value violates unique constraint")
	}
	r.likes[like.PostID][like.UserID] = true
	return nil
}

func (r *MemoryLikeRepository) DeleteLike(postID string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.likes[postID][userID] {
		return fmt.Errorf("like not found")
	}
	delete(r.likes[postID], userID)
	return nil
}

func (r *MemoryLikeRepository) GetLikesCountByPostID(postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.likes[postID])), nil
}

func (r *MemoryLikeRepository) HasUserLikedPost(postID string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.likes[postID][userID], nil
}

func (r *MemoryLikeRepository) DeleteLikesByPostID(postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes, postID)
	return nil
}

// MemoryShareRepository implements ShareRepository in memory
type MemoryShareRepository struct {
	mu     sync.Mutex
	shares []*models.SharedPost
	nextID uint
}

// NewMemoryShareRepository creates an empty MemoryShareRepository
func NewMemoryShareRepository() *MemoryShareRepository {
	return &MemoryShareRepository{nextID: 1}
}

func (r *MemoryShareRepository) CreateShare(share *models.SharedPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shares {
		if s.PostID == share.PostID && s.UserID == share.UserID {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	share.ID = r.nextID
	r.nextID++
	share.CreatedAt = time.Now()
	cp := *share
	r.shares = append(r.shares, &cp)
	return nil
}

func (r *MemoryShareRepository) DeleteShare(postID string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.shares {
		if s.PostID == postID && s.UserID == userID {
			r.shares = append(r.shares[:i], r.shares[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("share not found")
}

func (r *MemoryShareRepository) HasUserSharedPost(postID string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shares {
		if s.PostID == postID && s.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryShareRepository) GetSharesCountByPostID(postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, s := range r.shares {
		if s.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryShareRepository) GetSharesByUserID(userID uint) ([]models.SharedPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var shares []models.SharedPost
	for i := len(r.shares) - 1; i >= 0; i-- {
		if r.shares[i].UserID == userID {
			shares = append(shares, *r.shares[i])
		}
	}
	return shares, nil
}

func (r *MemoryShareRepository) GetSharedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	shared := make(map[string]bool)
	for _, s := range r.shares {
		if s.UserID == userID && wanted[s.PostID] {
			shared[s.PostID] = true
		}
	}
	return shared, nil
}

// MemoryReportRepository implements ReportRepository in memory
type MemoryReportRepository struct {
	mu      sync.Mutex
	reports []*models.PostReport
	nextID  uint
}

// NewMemoryReportRepository creates an empty MemoryReportRepository
func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{nextID: 1}
}

func (r *MemoryReportRepository) CreateReport(report *models.PostReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reports {
		if existing.PostID == report.PostID && existing.UserID == report.UserID {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	report.ID = r.nextID
	r.nextID++
	report.CreatedAt = time.Now()
	cp := *report
	r.reports = append(r.reports, &cp)
	return nil
}

func (r *MemoryReportRepository) HasUserReportedPost(postID string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, report := range r.reports {
		if report.PostID == postID && report.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryReportRepository) GetReportsCountByPostID(postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, report := range r.reports {
		if report.PostID == postID {
			count++
		}
	}
	return count, nil
}

// MemoryBlockRepository implements BlockRepository in memory
type MemoryBlockRepository struct {
	mu     sync.Mutex
	blocks []*models.Block
	nextID uint
}

// NewMemoryBlockRepository creates an empty MemoryBlockRepository
func NewMemoryBlockRepository() *MemoryBlockRepository {
	return &MemoryBlockRepository{nextID: 1}
}

func (r *MemoryBlockRepository) CreateBlock(block *models.Block) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.blocks {
		if b.BlockerID == block.BlockerID && b.BlockedID == block.BlockedID {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	block.ID = r.nextID
	r.nextID++
	block.CreatedAt = time.Now()
	cp := *block
	r.blocks = append(r.blocks, &cp)
	return nil
}

func (r *MemoryBlockRepository) DeleteBlock(blockerID, blockedID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			r.blocks = append(r.blocks[:i], r.blocks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("block not found")
}

func (r *MemoryBlockRepository) HasBlocked(blockerID, blockedID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryBlockRepository) IsBlocked(userA, userB uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.blocks {
		if (b.BlockerID == userA && b.BlockedID == userB) || (b.BlockerID == userB && b.BlockedID == userA) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryBlockRepository) GetBlockedIDs(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[uint]bool)
	var ids []uint
	for _, b := range r.blocks {
		var other uint
		switch userID {
		case b.BlockerID:
			other = b.BlockedID
		case b.BlockedID:
			other = b.BlockerID
		default:
			continue
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	return ids, nil
}

func (r *MemoryBlockRepository) GetBlockedUsers(blockerID uint) ([]models.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var blocks []models.Block
	for i := len(r.blocks) - 1; i >= 0; i-- {
		if r.blocks[i].BlockerID == blockerID {
			blocks = append(blocks, *r.blocks[i])
		}
	}
	return blocks, nil
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	s, substr = toLower(s), toLower(substr)
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func toLower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
