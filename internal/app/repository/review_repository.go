package repository

import (
	"time"

	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	GetSummary(placeID string) (*model.ReviewSummary, error)
	UpsertSummary(summary *model.ReviewSummary) error
	ListReviews(placeID string, limit int) ([]model.GoogleReview, error)
	UpsertReview(review *model.GoogleReview) error
	DeleteStaleReviews(placeID string, keepIDs []string) (int64, error)
	CountReviews(placeID string) (int64, error)
	CreateSyncLog(log *model.ReviewSyncLog) error
	UpdateSyncLog(log *model.ReviewSyncLog) error
	LastSuccessfulSync() (*model.ReviewSyncLog, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) GetSummary(placeID string) (*model.ReviewSummary, error) {
	var summary model.ReviewSummary
	if err := r.db.Where("place_id = ?", placeID).First(&summary).Error; err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *reviewRepository) UpsertSummary(summary *model.ReviewSummary) error {
	logger.Debug("Upserting review summary", map[string]interface{}{
		"place_id":       summary.PlaceID,
		"average_rating": summary.AverageRating,
		"total_reviews":  summary.TotalReviews,
	})

	summary.UpdatedAt = time.Now()
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "place_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"place_name", "average_rating", "total_reviews", "updated_at",
		}),
	}).Create(summary).Error; err != nil {
		logger.Error("Failed to upsert review summary", err, map[string]interface{}{
			"place_id": summary.PlaceID,
		})
		return err
	}
	return nil
}

// ListReviews returns the newest reviews for a place, most recent first.
func (r *reviewRepository) ListReviews(placeID string, limit int) ([]model.GoogleReview, error) {
	var reviews []model.GoogleReview
	query := r.db.Where("place_id = ?", placeID).Order("original_time DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reviews).Error; err != nil {
		logger.Error("Failed to list reviews", err, map[string]interface{}{
			"place_id": placeID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) UpsertReview(review *model.GoogleReview) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "place_id"}, {Name: "google_review_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"author_name", "rating", "text", "relative_time_description",
			"original_time", "review_url", "profile_photo_url",
		}),
	}).Create(review).Error; err != nil {
		logger.Error("Failed to upsert review", err, map[string]interface{}{
			"place_id":         review.PlaceID,
			"google_review_id": review.GoogleReviewID,
		})
		return err
	}
	return nil
}

// DeleteStaleReviews removes reviews for a place that are no longer present
// in the latest sync batch.
func (r *reviewRepository) DeleteStaleReviews(placeID string, keepIDs []string) (int64, error) {
	query := r.db.Where("place_id = ?", placeID)
	if len(keepIDs) > 0 {
		query = query.Where("google_review_id NOT IN ?", keepIDs)
	}

	result := query.Delete(&model.GoogleReview{})
	if result.Error != nil {
		logger.Error("Failed to delete stale reviews", result.Error, map[string]interface{}{
			"place_id": placeID,
		})
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.Debug("Stale reviews deleted", map[string]interface{}{
			"place_id": placeID,
			"count":    result.RowsAffected,
		})
	}
	return result.RowsAffected, nil
}

func (r *reviewRepository) CountReviews(placeID string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.GoogleReview{}).Where("place_id = ?", placeID).Count(&count).Error; err != nil {
		logger.Error("Failed to count reviews", err, map[string]interface{}{
			"place_id": placeID,
		})
		return 0, err
	}
	return count, nil
}

func (r *reviewRepository) CreateSyncLog(log *model.ReviewSyncLog) error {
	if err := r.db.Create(log).Error; err != nil {
		logger.Error("Failed to create sync log", err)
		return err
	}
	return nil
}

func (r *reviewRepository) UpdateSyncLog(log *model.ReviewSyncLog) error {
	if err := r.db.Save(log).Error; err != nil {
		logger.Error("Failed to update sync log", err, map[string]interface{}{
			"sync_log_id": log.ID,
		})
		return err
	}
	return nil
}

// LastSuccessfulSync returns the most recent sync run that completed,
// or gorm.ErrRecordNotFound when no run ever succeeded.
func (r *reviewRepository) LastSuccessfulSync() (*model.ReviewSyncLog, error) {
	var log model.ReviewSyncLog
	err := r.db.Where("status = ?", model.SyncSuccess).
		Order("finished_at DESC").
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}
