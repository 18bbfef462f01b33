package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/internal/app/repository"
	"github.com/kraakman/autoservice-backend/pkg/logger"
	"gorm.io/gorm"
)

// minStoredRating is the lowest rating the sync persists. The site only
// showcases positive reviews with actual text.
const minStoredRating = 4

// staleCacheThreshold is how old the review cache may get before the
// health check reports it unhealthy.
const staleCacheThreshold = 48 * time.Hour

// SyncResult summarizes one sync run.
type SyncResult struct {
	Fetched  int           `json:"fetched"`
	Added    int           `json:"added"`
	Updated  int           `json:"updated"`
	Deleted  int           `json:"deleted"`
	Duration time.Duration `json:"-"`
}

// ReviewHealth reports the state of the review cache: when the last
// sync succeeded, how old the cache is and how many reviews it holds.
type ReviewHealth struct {
	Healthy       bool       `json:"healthy"`
	LastSync      *time.Time `json:"lastSync,omitempty"`
	CacheAgeHours int        `json:"cacheAgeHours"`
	ReviewCount   int        `json:"reviewCount"`
}

type ReviewSyncService interface {
	Sync(ctx context.Context, syncType string) (*SyncResult, error)
	Health(ctx context.Context) (*ReviewHealth, error)
}

type reviewSyncService struct {
	repo      repository.ReviewRepository
	fetcher   PlaceDetailsFetcher
	snapshots SnapshotStore
	placeID   string
	reviewURL string
	now       func() time.Time
}

func NewReviewSyncService(repo repository.ReviewRepository, fetcher PlaceDetailsFetcher, snapshots SnapshotStore, placeID, reviewURL string) ReviewSyncService {
	return &reviewSyncService{
		repo:      repo,
		fetcher:   fetcher,
		snapshots: snapshots,
		placeID:   placeID,
		reviewURL: reviewURL,
		now:       time.Now,
	}
}

// Sync pulls the latest place details from the Places API, refreshes the
// summary and review cache, removes reviews that disappeared upstream and
// rewrites the redis snapshot. Every run leaves a sync log row.
func (s *reviewSyncService) Sync(ctx context.Context, syncType string) (*SyncResult, error) {
	start := s.now()

	logger.Info("Starting review sync", map[string]interface{}{
		"sync_type": syncType,
		"place_id":  s.placeID,
	})

	syncLog := &model.ReviewSyncLog{
		SyncType: syncType,
		Status:   model.SyncPending,
	}
	if err := s.repo.CreateSyncLog(syncLog); err != nil {
		return nil, err
	}

	result, err := s.run(ctx)

	finished := s.now()
	syncLog.DurationMS = finished.Sub(start).Milliseconds()
	syncLog.FinishedAt = &finished

	if err != nil {
		syncLog.Status = model.SyncError
		syncLog.ErrorMessage = err.Error()
		if logErr := s.repo.UpdateSyncLog(syncLog); logErr != nil {
			logger.Error("Failed to record sync failure", logErr)
		}

		logger.Error("Review sync failed", err, map[string]interface{}{
			"sync_type": syncType,
		})
		return nil, err
	}

	syncLog.Status = model.SyncSuccess
	syncLog.ReviewsFetched = result.Fetched
	syncLog.ReviewsAdded = result.Added
	syncLog.ReviewsUpdated = result.Updated
	syncLog.ReviewsDeleted = result.Deleted
	if logErr := s.repo.UpdateSyncLog(syncLog); logErr != nil {
		logger.Error("Failed to record sync result", logErr)
	}

	result.Duration = finished.Sub(start)
	logger.Info("Review sync completed", map[string]interface{}{
		"sync_type":   syncType,
		"fetched":     result.Fetched,
		"added":       result.Added,
		"updated":     result.Updated,
		"deleted":     result.Deleted,
		"duration_ms": syncLog.DurationMS,
	})
	return result, nil
}

func (s *reviewSyncService) run(ctx context.Context) (*SyncResult, error) {
	details, err := s.fetcher.Details(ctx, s.placeID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpsertSummary(&model.ReviewSummary{
		PlaceID:       s.placeID,
		PlaceName:     details.Name,
		AverageRating: details.Rating,
		TotalReviews:  details.UserRatingsTotal,
	}); err != nil {
		return nil, err
	}

	existing := make(map[string]bool)
	if current, err := s.repo.ListReviews(s.placeID, 0); err == nil {
		for _, review := range current {
			existing[review.GoogleReviewID] = true
		}
	}

	result := &SyncResult{Fetched: len(details.Reviews)}
	keepIDs := make([]string, 0, len(details.Reviews))

	for _, review := range details.Reviews {
		if review.Rating < minStoredRating || review.Text == "" {
			continue
		}

		reviewID := googleReviewID(review.AuthorName, review.Time)
		if err := s.repo.UpsertReview(&model.GoogleReview{
			PlaceID:                 s.placeID,
			GoogleReviewID:          reviewID,
			AuthorName:              review.AuthorName,
			Rating:                  review.Rating,
			Text:                    review.Text,
			RelativeTimeDescription: review.RelativeTimeDescription,
			OriginalTime:            time.Unix(review.Time, 0),
			ReviewURL:               s.reviewURL,
			ProfilePhotoURL:         review.ProfilePhotoURL,
		}); err != nil {
			return nil, err
		}

		keepIDs = append(keepIDs, reviewID)
		if existing[reviewID] {
			result.Updated++
		} else {
			result.Added++
		}
	}

	deleted, err := s.repo.DeleteStaleReviews(s.placeID, keepIDs)
	if err != nil {
		return nil, err
	}
	result.Deleted = int(deleted)

	if err := s.refreshSnapshot(ctx); err != nil {
		// the snapshot is fallback data, a failed refresh does not fail the sync
		logger.Warn("Failed to refresh review snapshot", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return result, nil
}

// Health inspects the sync log and review cache. The cache counts as
// healthy when a sync succeeded within staleCacheThreshold and at least
// one review is cached.
func (s *reviewSyncService) Health(ctx context.Context) (*ReviewHealth, error) {
	count, err := s.repo.CountReviews(s.placeID)
	if err != nil {
		return nil, err
	}
	health := &ReviewHealth{ReviewCount: int(count)}

	last, err := s.repo.LastSuccessfulSync()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// never synced successfully
			return health, nil
		}
		return nil, err
	}

	lastSync := last.CreatedAt
	if last.FinishedAt != nil {
		lastSync = *last.FinishedAt
	}
	health.LastSync = &lastSync
	health.CacheAgeHours = cacheAgeHours(s.now(), lastSync)
	health.Healthy = count > 0 && s.now().Sub(lastSync) <= staleCacheThreshold
	return health, nil
}

// googleReviewID derives a stable id for a review. The Places API does
// not expose review ids, so author plus timestamp has to do.
func googleReviewID(authorName string, unixTime int64) string {
	return authorName + ":" + time.Unix(unixTime, 0).UTC().Format(time.RFC3339)
}

// refreshSnapshot rewrites the redis snapshot from the database so the
// fallback tier serves what was just synced.
func (s *reviewSyncService) refreshSnapshot(ctx context.Context) error {
	provider := &databaseReviewProvider{
		repo:      s.repo,
		placeID:   s.placeID,
		reviewURL: s.reviewURL,
		now:       s.now,
	}

	view, err := provider.Fetch(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return s.snapshots.Save(ctx, SnapshotKey(s.placeID), data)
}
