package model

import "time"

// ReviewSummary is the aggregated Google rating for one place. There is
// exactly one row per place id; the periodic sync upserts it. The website
// only ever reads it.
type ReviewSummary struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	PlaceID       string    `gorm:"uniqueIndex;not null" json:"place_id"`
	PlaceName     string    `gorm:"not null" json:"place_name"`
	AverageRating float64   `gorm:"not null" json:"average_rating"`
	TotalReviews  int       `gorm:"not null" json:"total_reviews"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ReviewSummary) TableName() string {
	return "review_summaries"
}

// GoogleReview is one cached customer review. GoogleReviewID is the
// provider-assigned id used as the upsert conflict target together with
// the place id. The sync only persists 4-5 star reviews with text.
type GoogleReview struct {
	ID                      uint      `gorm:"primarykey" json:"id"`
	PlaceID                 string    `gorm:"not null;uniqueIndex:idx_reviews_place_review" json:"place_id"`
	GoogleReviewID          string    `gorm:"not null;uniqueIndex:idx_reviews_place_review" json:"google_review_id"`
	AuthorName              string    `gorm:"not null" json:"author_name"`
	Rating                  int       `gorm:"not null" json:"rating"`
	Text                    string    `gorm:"type:text" json:"text"`
	RelativeTimeDescription string    `json:"relative_time_description"`
	OriginalTime            time.Time `gorm:"index" json:"original_time"`
	ReviewURL               string    `json:"google_review_url"`
	ProfilePhotoURL         *string   `json:"profile_photo_url,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func (GoogleReview) TableName() string {
	return "google_reviews"
}

type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

// ReviewSyncLog records one run of the review sync job.
type ReviewSyncLog struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	SyncType        string     `gorm:"not null" json:"sync_type"` // scheduled, manual
	Status          SyncStatus `gorm:"type:varchar(20);not null" json:"status"`
	ReviewsFetched  int        `json:"reviews_fetched"`
	ReviewsAdded    int        `json:"reviews_added"`
	ReviewsUpdated  int        `json:"reviews_updated"`
	ReviewsDeleted  int        `json:"reviews_deleted"`
	DurationMS      int64      `json:"duration_ms"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
}

func (ReviewSyncLog) TableName() string {
	return "review_sync_logs"
}
