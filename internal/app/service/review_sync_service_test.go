package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/internal/app/repository"
	"github.com/kraakman/autoservice-backend/internal/db"
	"github.com/kraakman/autoservice-backend/pkg/places"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const syncTestPlaceID = "sync-test-place"

type fakeFetcher struct {
	details *places.PlaceDetails
	err     error
}

func (f *fakeFetcher) Details(ctx context.Context, placeID string) (*places.PlaceDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

type memorySnapshotStore struct {
	data map[string][]byte
}

func newMemorySnapshotStore() *memorySnapshotStore {
	return &memorySnapshotStore{data: make(map[string][]byte)}
}

func (m *memorySnapshotStore) Save(ctx context.Context, key string, data []byte) error {
	m.data[key] = data
	return nil
}

func (m *memorySnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, ok := m.data[key]
	if !ok {
		return nil, errors.New("snapshot not found")
	}
	return data, nil
}

func setupSyncService(t *testing.T, fetcher *fakeFetcher) (ReviewSyncService, repository.ReviewRepository, *memorySnapshotStore) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	repo := repository.NewReviewRepository(database)
	snapshots := newMemorySnapshotStore()
	svc := NewReviewSyncService(repo, fetcher, snapshots, syncTestPlaceID, "https://g.page/r/test/review")
	return svc, repo, snapshots
}

func placeDetailsFixture() *places.PlaceDetails {
	now := time.Now().Unix()
	return &places.PlaceDetails{
		Name:             "Auto Service van der Waals",
		Rating:           4.7,
		UserRatingsTotal: 132,
		Reviews: []places.PlaceReview{
			{AuthorName: "Jan", Rating: 5, Text: "Top service", RelativeTimeDescription: "een week geleden", Time: now - 600},
			{AuthorName: "Piet", Rating: 4, Text: "Prima geholpen", RelativeTimeDescription: "2 weken geleden", Time: now - 1200},
			{AuthorName: "Kees", Rating: 2, Text: "Niet tevreden", RelativeTimeDescription: "3 weken geleden", Time: now - 1800},
			{AuthorName: "Anna", Rating: 5, Text: "", RelativeTimeDescription: "een maand geleden", Time: now - 2400},
		},
	}
}

func TestSync_StoresPositiveReviewsWithText(t *testing.T) {
	svc, repo, _ := setupSyncService(t, &fakeFetcher{details: placeDetailsFixture()})

	result, err := svc.Sync(context.Background(), "manual")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Fetched)
	// only the 4-5 star reviews with text make it into the cache
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 0, result.Updated)

	summary, err := repo.GetSummary(syncTestPlaceID)
	require.NoError(t, err)
	assert.Equal(t, 4.7, summary.AverageRating)
	assert.Equal(t, 132, summary.TotalReviews)

	reviews, err := repo.ListReviews(syncTestPlaceID, 50)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Jan", reviews[0].AuthorName)
}

func TestSync_SecondRunUpdatesInsteadOfDuplicating(t *testing.T) {
	svc, repo, _ := setupSyncService(t, &fakeFetcher{details: placeDetailsFixture()})

	_, err := svc.Sync(context.Background(), "manual")
	require.NoError(t, err)

	result, err := svc.Sync(context.Background(), "scheduled")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 2, result.Updated)

	reviews, err := repo.ListReviews(syncTestPlaceID, 50)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestSync_DeletesStaleReviews(t *testing.T) {
	fetcher := &fakeFetcher{details: placeDetailsFixture()}
	svc, repo, _ := setupSyncService(t, fetcher)

	_, err := svc.Sync(context.Background(), "manual")
	require.NoError(t, err)

	// next fetch no longer contains Piet's review
	fetcher.details.Reviews = fetcher.details.Reviews[:1]

	result, err := svc.Sync(context.Background(), "scheduled")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	reviews, err := repo.ListReviews(syncTestPlaceID, 50)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Jan", reviews[0].AuthorName)
}

func TestSync_RefreshesSnapshot(t *testing.T) {
	svc, _, snapshots := setupSyncService(t, &fakeFetcher{details: placeDetailsFixture()})

	_, err := svc.Sync(context.Background(), "manual")
	require.NoError(t, err)

	data, err := snapshots.Load(context.Background(), SnapshotKey(syncTestPlaceID))
	require.NoError(t, err)

	var view ReviewView
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, "Auto Service van der Waals", view.Name)
	assert.Equal(t, 4.7, view.Rating)
	assert.Len(t, view.Reviews, 2)
}

func TestSync_RecordsFailedRun(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("quota exceeded")}

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	repo := repository.NewReviewRepository(database)
	svc := NewReviewSyncService(repo, fetcher, newMemorySnapshotStore(), syncTestPlaceID, "")

	_, err = svc.Sync(context.Background(), "scheduled")
	require.Error(t, err)

	var logs []model.ReviewSyncLog
	require.NoError(t, database.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, model.SyncError, logs[0].Status)
	assert.Contains(t, logs[0].ErrorMessage, "quota exceeded")
	assert.NotNil(t, logs[0].FinishedAt)
}

func TestHealth_NeverSynced(t *testing.T) {
	svc, _, _ := setupSyncService(t, &fakeFetcher{details: placeDetailsFixture()})

	health, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, health.Healthy)
	assert.Nil(t, health.LastSync)
	assert.Zero(t, health.ReviewCount)
}

func TestHealth_AfterSuccessfulSync(t *testing.T) {
	svc, _, _ := setupSyncService(t, &fakeFetcher{details: placeDetailsFixture()})

	_, err := svc.Sync(context.Background(), "manual")
	require.NoError(t, err)

	health, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, health.Healthy)
	require.NotNil(t, health.LastSync)
	assert.Zero(t, health.CacheAgeHours)
	assert.Equal(t, 2, health.ReviewCount)
}

func TestHealth_StaleCacheIsUnhealthy(t *testing.T) {
	svc, _, _ := setupSyncService(t, &fakeFetcher{details: placeDetailsFixture()})

	_, err := svc.Sync(context.Background(), "manual")
	require.NoError(t, err)

	impl := svc.(*reviewSyncService)
	impl.now = func() time.Time { return time.Now().Add(72 * time.Hour) }

	health, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, health.Healthy)
	assert.Equal(t, 72, health.CacheAgeHours)
	assert.Equal(t, 2, health.ReviewCount)
}

func TestDatabaseProviderServesSyncedData(t *testing.T) {
	svc, repo, snapshots := setupSyncService(t, &fakeFetcher{details: placeDetailsFixture()})

	_, err := svc.Sync(context.Background(), "manual")
	require.NoError(t, err)

	reviewSvc := NewReviewService(repo, snapshots, &fakeFetcher{err: errors.New("should not be called")}, syncTestPlaceID, "https://g.page/r/test/review")

	view, err := reviewSvc.GetReviews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "database", view.Source)
	assert.False(t, view.UsingFallback)
	assert.Equal(t, 5, view.StarCount)
	assert.Equal(t, 2, view.FilteredCount)
	assert.Equal(t, 132, view.TotalReviewCount)
	require.NotNil(t, view.LastSync)
}

func TestGetReviews_PrimaryReadRefreshesSnapshot(t *testing.T) {
	svc, repo, _ := setupSyncService(t, &fakeFetcher{details: placeDetailsFixture()})

	_, err := svc.Sync(context.Background(), "manual")
	require.NoError(t, err)

	// a fresh store, so only the database read can have filled it
	snapshots := newMemorySnapshotStore()
	reviewSvc := NewReviewService(repo, snapshots, &fakeFetcher{err: errors.New("api down")}, syncTestPlaceID, "")

	_, err = reviewSvc.GetReviews(context.Background())
	require.NoError(t, err)

	data, err := snapshots.Load(context.Background(), SnapshotKey(syncTestPlaceID))
	require.NoError(t, err)

	var view ReviewView
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, "Auto Service van der Waals", view.Name)
	assert.Len(t, view.Reviews, 2)
}

func TestGetReviews_UsesSnapshotWhenDatabaseEmpty(t *testing.T) {
	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	repo := repository.NewReviewRepository(database)
	snapshots := newMemorySnapshotStore()

	stored := ReviewView{Name: "Auto Service van der Waals", Rating: 4.5, StarCount: 5}
	data, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, snapshots.Save(context.Background(), SnapshotKey(syncTestPlaceID), data))

	reviewSvc := NewReviewService(repo, snapshots, &fakeFetcher{err: errors.New("api down")}, syncTestPlaceID, "")

	view, err := reviewSvc.GetReviews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "snapshot", view.Source)
	assert.True(t, view.UsingFallback)
	assert.Equal(t, "Auto Service van der Waals", view.Name)

	// an empty database means the summary lookup fails with not found
	_, err = repo.GetSummary(syncTestPlaceID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
