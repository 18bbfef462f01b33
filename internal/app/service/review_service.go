package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kraakman/autoservice-backend/internal/app/repository"
	"github.com/kraakman/autoservice-backend/pkg/logger"
	"github.com/kraakman/autoservice-backend/pkg/places"
)

var ErrReviewsUnavailable = errors.New("reviews unavailable from all sources")

// maxReviewsShown caps how many cached reviews the site shows.
const maxReviewsShown = 50

// liveDataNote is appended to the place name when the reviews come
// straight from the Places API instead of our own cache.
const liveDataNote = " (Live data - database tijdelijk onbeschikbaar)"

// ReviewItem is one review as the website renders it.
type ReviewItem struct {
	AuthorName              string  `json:"author_name"`
	Rating                  int     `json:"rating"`
	Text                    string  `json:"text"`
	RelativeTimeDescription string  `json:"relative_time_description"`
	ProfilePhotoURL         *string `json:"profile_photo_url,omitempty"`
}

// ReviewView is the complete review block for the homepage: the place
// summary, the reviews to show and metadata about where the data came
// from and how old it is.
type ReviewView struct {
	Name             string       `json:"name"`
	Rating           float64      `json:"rating"`
	StarCount        int          `json:"starCount"`
	TotalReviews     int          `json:"totalReviews"`
	Reviews          []ReviewItem `json:"reviews"`
	FilteredCount    int          `json:"filteredCount"`
	TotalReviewCount int          `json:"totalReviewCount"`
	Note             string       `json:"note,omitempty"`
	GoogleReviewURL  string       `json:"google_review_url"`
	LastSync         *time.Time   `json:"lastSync,omitempty"`
	CacheAgeHours    int          `json:"cacheAgeHours"`
	UsingFallback    bool         `json:"usingFallback"`
	Source           string       `json:"source"`
}

// StarCount maps an average rating to a whole number of stars. Ratings
// from 4.5 up round to the full five, everything else rounds down.
func StarCount(rating float64) int {
	if rating >= 4.5 {
		return 5
	}
	if rating < 0 {
		return 0
	}
	return int(math.Floor(rating))
}

// ReviewProvider is one tier of the review waterfall.
type ReviewProvider interface {
	Name() string
	Fetch(ctx context.Context) (*ReviewView, error)
}

// SnapshotStore persists the JSON snapshot the middle waterfall tier
// falls back to.
type SnapshotStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// PlaceDetailsFetcher fetches live place details from the Places API.
type PlaceDetailsFetcher interface {
	Details(ctx context.Context, placeID string) (*places.PlaceDetails, error)
}

type ReviewService interface {
	GetReviews(ctx context.Context) (*ReviewView, error)
}

type reviewService struct {
	providers   []ReviewProvider
	snapshots   SnapshotStore
	snapshotKey string
}

// NewReviewService builds the three-tier waterfall: own database first,
// then the stored snapshot, then the live Places API.
func NewReviewService(reviewRepo repository.ReviewRepository, snapshots SnapshotStore, fetcher PlaceDetailsFetcher, placeID, reviewURL string) ReviewService {
	return &reviewService{
		providers: []ReviewProvider{
			&databaseReviewProvider{repo: reviewRepo, placeID: placeID, reviewURL: reviewURL, now: time.Now},
			&snapshotReviewProvider{store: snapshots, key: SnapshotKey(placeID)},
			&liveReviewProvider{fetcher: fetcher, placeID: placeID, reviewURL: reviewURL},
		},
		snapshots:   snapshots,
		snapshotKey: SnapshotKey(placeID),
	}
}

// NewReviewServiceWithProviders wires an explicit provider chain.
func NewReviewServiceWithProviders(providers ...ReviewProvider) ReviewService {
	return &reviewService{providers: providers}
}

// SnapshotKey is the redis key the review snapshot lives under.
func SnapshotKey(placeID string) string {
	return fmt.Sprintf("reviews:snapshot:%s", placeID)
}

// GetReviews walks the waterfall in order and returns the first tier
// that produces data. Every tier past the first is marked as fallback.
func (s *reviewService) GetReviews(ctx context.Context) (*ReviewView, error) {
	for i, provider := range s.providers {
		view, err := provider.Fetch(ctx)
		if err != nil {
			logger.Warn("Review source failed, trying next", map[string]interface{}{
				"source": provider.Name(),
				"error":  err.Error(),
			})
			continue
		}

		if i == 0 {
			s.refreshSnapshot(ctx, view)
		}

		view.Source = provider.Name()
		view.UsingFallback = i > 0

		logger.Debug("Reviews served", map[string]interface{}{
			"source":         view.Source,
			"using_fallback": view.UsingFallback,
			"review_count":   len(view.Reviews),
		})
		return view, nil
	}

	logger.Error("All review sources failed", ErrReviewsUnavailable)
	return nil, ErrReviewsUnavailable
}

// refreshSnapshot keeps the fallback snapshot in step with the primary
// tier. Best effort: a failed write only costs fallback freshness.
func (s *reviewService) refreshSnapshot(ctx context.Context, view *ReviewView) {
	if s.snapshots == nil {
		return
	}

	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.snapshots.Save(ctx, s.snapshotKey, data); err != nil {
		logger.Warn("Failed to refresh review snapshot", map[string]interface{}{
			"key":   s.snapshotKey,
			"error": err.Error(),
		})
	}
}

// databaseReviewProvider serves the synced cache from our own database.
type databaseReviewProvider struct {
	repo      repository.ReviewRepository
	placeID   string
	reviewURL string
	now       func() time.Time
}

func (p *databaseReviewProvider) Name() string { return "database" }

func (p *databaseReviewProvider) Fetch(ctx context.Context) (*ReviewView, error) {
	summary, err := p.repo.GetSummary(p.placeID)
	if err != nil {
		return nil, err
	}

	reviews, err := p.repo.ListReviews(p.placeID, maxReviewsShown)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewItem, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, ReviewItem{
			AuthorName:              review.AuthorName,
			Rating:                  review.Rating,
			Text:                    review.Text,
			RelativeTimeDescription: review.RelativeTimeDescription,
			ProfilePhotoURL:         review.ProfilePhotoURL,
		})
	}

	lastSync := summary.UpdatedAt
	view := &ReviewView{
		Name:             summary.PlaceName,
		Rating:           summary.AverageRating,
		StarCount:        StarCount(summary.AverageRating),
		TotalReviews:     summary.TotalReviews,
		Reviews:          items,
		FilteredCount:    len(items),
		TotalReviewCount: summary.TotalReviews,
		GoogleReviewURL:  p.reviewURL,
		LastSync:         &lastSync,
		CacheAgeHours:    cacheAgeHours(p.now(), summary.UpdatedAt),
		Note:             cacheAgeNote(p.now(), summary.UpdatedAt),
	}
	return view, nil
}

// cacheAgeHours is the cache age rounded to whole hours.
func cacheAgeHours(now, updatedAt time.Time) int {
	return int(math.Round(now.Sub(updatedAt).Hours()))
}

// cacheAgeNote tells the visitor how old the cached data is. Under an
// hour the cache counts as current and there is no note.
func cacheAgeNote(now, updatedAt time.Time) string {
	hours := cacheAgeHours(now, updatedAt)
	if hours < 1 {
		return ""
	}
	return fmt.Sprintf("Data bijgewerkt %du geleden om %s", hours, updatedAt.Format("15:04"))
}

// snapshotReviewProvider replays the last good view stored in redis.
type snapshotReviewProvider struct {
	store SnapshotStore
	key   string
}

func (p *snapshotReviewProvider) Name() string { return "snapshot" }

func (p *snapshotReviewProvider) Fetch(ctx context.Context) (*ReviewView, error) {
	data, err := p.store.Load(ctx, p.key)
	if err != nil {
		return nil, err
	}

	var view ReviewView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("corrupt review snapshot: %w", err)
	}
	return &view, nil
}

// liveReviewProvider asks the Places API directly. Last resort: the API
// returns at most a handful of reviews and costs quota per call.
type liveReviewProvider struct {
	fetcher   PlaceDetailsFetcher
	placeID   string
	reviewURL string
}

func (p *liveReviewProvider) Name() string { return "live" }

func (p *liveReviewProvider) Fetch(ctx context.Context) (*ReviewView, error) {
	details, err := p.fetcher.Details(ctx, p.placeID)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewItem, 0, len(details.Reviews))
	for _, review := range details.Reviews {
		if review.Rating < 3 || review.Text == "" {
			continue
		}
		items = append(items, ReviewItem{
			AuthorName:              review.AuthorName,
			Rating:                  review.Rating,
			Text:                    review.Text,
			RelativeTimeDescription: review.RelativeTimeDescription,
			ProfilePhotoURL:         review.ProfilePhotoURL,
		})
	}

	return &ReviewView{
		Name:             details.Name + liveDataNote,
		Rating:           details.Rating,
		StarCount:        StarCount(details.Rating),
		TotalReviews:     details.UserRatingsTotal,
		Reviews:          items,
		FilteredCount:    len(items),
		TotalReviewCount: details.UserRatingsTotal,
		GoogleReviewURL:  p.reviewURL,
	}, nil
}
