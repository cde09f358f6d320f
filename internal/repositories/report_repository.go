package repositories

import (
	"github.com/socialconnect-app/backend/internal/models"
	"gorm.io/gorm"
)

// ReportRepository defines the interface for post report operations
type ReportRepository interface {
	CreateReport(report *models.PostReport) error
	HasUserReportedPost(postID string, userID uint) (bool, error)
	GetReportsCountByPostID(postID string) (int64, error)
}

// PostgresReportRepository implements ReportRepository for PostgreSQL
type PostgresReportRepository struct {
	db *gorm.DB
}

// NewPostgresReportRepository creates a new PostgresReportRepository
func NewPostgresReportRepository(db *gorm.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// CreateReport records a report in PostgreSQL
func (r *PostgresReportRepository) CreateReport(report *models.PostReport) error {
	return r.db.Create(report).Error
}

// HasUserReportedPost checks if a user has already reported a specific post
func (r *PostgresReportRepository) HasUserReportedPost(postID string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.PostReport{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetReportsCountByPostID retrieves the count of reports for a specific post
func (r *PostgresReportRepository) GetReportsCountByPostID(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PostReport{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
