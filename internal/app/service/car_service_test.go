package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/internal/app/repository"
	"github.com/kraakman/autoservice-backend/internal/db"
	"github.com/kraakman/autoservice-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePhotoStore keeps uploads in memory and records removals.
type fakePhotoStore struct {
	mu       sync.Mutex
	uploads  int
	removed  []string
	failNext bool
}

func (f *fakePhotoStore) Upload(ctx context.Context, carID uint, filename, contentType string, body io.Reader) (*storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return nil, fmt.Errorf("storage unavailable")
	}
	f.uploads++
	key := fmt.Sprintf("cars/%d/%s", carID, filename)
	return &storage.UploadResult{
		URL: "https://cdn.example.com/" + key,
		Key: key,
	}, nil
}

func (f *fakePhotoStore) Remove(ctx context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, keys...)
	return nil
}

func setupCarService(t *testing.T) (CarService, *fakePhotoStore) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	photos := &fakePhotoStore{}
	svc := NewCarService(
		repository.NewCarRepository(database),
		repository.NewCarImageRepository(database),
		photos,
	)
	return svc, photos
}

func newTestCar(merk, carModel string) *model.Car {
	return &model.Car{
		Merk:     merk,
		Model:    carModel,
		Bouwjaar: 2020,
		Prijs:    18500,
	}
}

func TestCreateCar_DefaultsToAanbod(t *testing.T) {
	svc, _ := setupCarService(t)

	car := newTestCar("Skoda", "Octavia")
	require.NoError(t, svc.CreateCar(car))
	require.NotZero(t, car.ID)

	found, err := svc.GetCarByID(car.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAanbod, found.Status)
}

func TestUpdateCar_NormalizesFlags(t *testing.T) {
	svc, _ := setupCarService(t)

	car := newTestCar("Seat", "Leon")
	require.NoError(t, svc.CreateCar(car))

	// reserving clears the "coming soon" flag
	updated := newTestCar("Seat", "Leon")
	updated.Gereserveerd = true
	updated.BinnenkortBeschikbaar = true
	result, err := svc.UpdateCar(car.ID, updated)
	require.NoError(t, err)
	assert.True(t, result.Gereserveerd)
	assert.False(t, result.BinnenkortBeschikbaar)

	// selling clears both flags
	sold := newTestCar("Seat", "Leon")
	sold.Status = model.StatusVerkocht
	sold.Gereserveerd = true
	sold.BinnenkortBeschikbaar = true
	result, err = svc.UpdateCar(car.ID, sold)
	require.NoError(t, err)
	assert.Equal(t, model.StatusVerkocht, result.Status)
	assert.False(t, result.Gereserveerd)
	assert.False(t, result.BinnenkortBeschikbaar)
}

func TestUpdateCar_NotFound(t *testing.T) {
	svc, _ := setupCarService(t)

	_, err := svc.UpdateCar(9999, newTestCar("BMW", "X1"))
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestDeleteCar_RequiresExactBrandConfirmation(t *testing.T) {
	svc, _ := setupCarService(t)

	car := newTestCar("Peugeot", "208")
	require.NoError(t, svc.CreateCar(car))

	// case matters
	err := svc.DeleteCar(context.Background(), car.ID, "peugeot")
	assert.ErrorIs(t, err, ErrConfirmationMismatch)

	err = svc.DeleteCar(context.Background(), car.ID, "")
	assert.ErrorIs(t, err, ErrConfirmationMismatch)

	require.NoError(t, svc.DeleteCar(context.Background(), car.ID, "Peugeot"))

	_, err = svc.GetCarByID(car.ID)
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestDeleteCar_RemovesStoredPhotos(t *testing.T) {
	svc, photos := setupCarService(t)

	car := newTestCar("Renault", "Clio")
	require.NoError(t, svc.CreateCar(car))

	_, err := svc.UploadImages(context.Background(), car.ID, []ImageUpload{
		{Filename: "voorkant.jpg", ContentType: "image/jpeg", Size: 1024, Body: strings.NewReader("x")},
		{Filename: "achterkant.jpg", ContentType: "image/jpeg", Size: 1024, Body: strings.NewReader("x")},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCar(context.Background(), car.ID, "Renault"))
	assert.Len(t, photos.removed, 2)
}

func TestUploadImages_AppendsAfterExistingPhotos(t *testing.T) {
	svc, _ := setupCarService(t)

	car := newTestCar("Toyota", "Yaris")
	require.NoError(t, svc.CreateCar(car))

	first, err := svc.UploadImages(context.Background(), car.ID, []ImageUpload{
		{Filename: "a.jpg", ContentType: "image/jpeg", Size: 512, Body: strings.NewReader("x")},
	})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 0, first[0].DisplayOrder)

	second, err := svc.UploadImages(context.Background(), car.ID, []ImageUpload{
		{Filename: "b.jpg", ContentType: "image/png", Size: 512, Body: strings.NewReader("x")},
		{Filename: "c.jpg", ContentType: "image/webp", Size: 512, Body: strings.NewReader("x")},
	})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, 1, second[0].DisplayOrder)
	assert.Equal(t, 2, second[1].DisplayOrder)
}

func TestUploadImages_RejectsBadFiles(t *testing.T) {
	svc, photos := setupCarService(t)

	car := newTestCar("Fiat", "500")
	require.NoError(t, svc.CreateCar(car))

	_, err := svc.UploadImages(context.Background(), car.ID, []ImageUpload{
		{Filename: "virus.exe", ContentType: "application/octet-stream", Size: 512, Body: strings.NewReader("x")},
	})
	assert.ErrorIs(t, err, ErrInvalidImageType)

	_, err = svc.UploadImages(context.Background(), car.ID, []ImageUpload{
		{Filename: "huge.jpg", ContentType: "image/jpeg", Size: 50 << 20, Body: strings.NewReader("x")},
	})
	assert.ErrorIs(t, err, ErrImageTooLarge)

	assert.Zero(t, photos.uploads)
}

func TestMoveImage_SwapsNeighborsAndRenumbers(t *testing.T) {
	svc, _ := setupCarService(t)

	car := newTestCar("Mazda", "3")
	require.NoError(t, svc.CreateCar(car))

	images, err := svc.UploadImages(context.Background(), car.ID, []ImageUpload{
		{Filename: "a.jpg", ContentType: "image/jpeg", Size: 512, Body: strings.NewReader("x")},
		{Filename: "b.jpg", ContentType: "image/jpeg", Size: 512, Body: strings.NewReader("x")},
		{Filename: "c.jpg", ContentType: "image/jpeg", Size: 512, Body: strings.NewReader("x")},
	})
	require.NoError(t, err)

	// move middle photo up
	reordered, err := svc.MoveImage(car.ID, images[1].ID, MoveUp)
	require.NoError(t, err)
	require.Len(t, reordered, 3)
	assert.Equal(t, images[1].ID, reordered[0].ID)
	assert.Equal(t, images[0].ID, reordered[1].ID)
	assert.Equal(t, images[2].ID, reordered[2].ID)
	for i, image := range reordered {
		assert.Equal(t, i, image.DisplayOrder)
	}

	// moving the first photo up is a no-op
	reordered, err = svc.MoveImage(car.ID, images[1].ID, MoveUp)
	require.NoError(t, err)
	assert.Equal(t, images[1].ID, reordered[0].ID)
}

func TestMoveImage_InvalidDirection(t *testing.T) {
	svc, _ := setupCarService(t)

	car := newTestCar("Honda", "Civic")
	require.NoError(t, svc.CreateCar(car))

	_, err := svc.MoveImage(car.ID, 1, MoveDirection("sideways"))
	assert.ErrorIs(t, err, ErrInvalidMoveDirection)
}

func TestDeleteImage_CompactsDisplayOrder(t *testing.T) {
	svc, photos := setupCarService(t)

	car := newTestCar("Kia", "Ceed")
	require.NoError(t, svc.CreateCar(car))

	images, err := svc.UploadImages(context.Background(), car.ID, []ImageUpload{
		{Filename: "a.jpg", ContentType: "image/jpeg", Size: 512, Body: strings.NewReader("x")},
		{Filename: "b.jpg", ContentType: "image/jpeg", Size: 512, Body: strings.NewReader("x")},
		{Filename: "c.jpg", ContentType: "image/jpeg", Size: 512, Body: strings.NewReader("x")},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteImage(context.Background(), car.ID, images[1].ID))
	assert.Contains(t, photos.removed, images[1].ObjectKey)

	remaining, err := svc.ListImages(car.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, images[0].ID, remaining[0].ID)
	assert.Equal(t, 0, remaining[0].DisplayOrder)
	assert.Equal(t, images[2].ID, remaining[1].ID)
	assert.Equal(t, 1, remaining[1].DisplayOrder)
}

func TestDeleteImage_WrongCar(t *testing.T) {
	svc, _ := setupCarService(t)

	car := newTestCar("Opel", "Corsa")
	require.NoError(t, svc.CreateCar(car))
	other := newTestCar("Opel", "Astra")
	require.NoError(t, svc.CreateCar(other))

	images, err := svc.UploadImages(context.Background(), car.ID, []ImageUpload{
		{Filename: "a.jpg", ContentType: "image/jpeg", Size: 512, Body: strings.NewReader("x")},
	})
	require.NoError(t, err)

	err = svc.DeleteImage(context.Background(), other.ID, images[0].ID)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestGetSimilarCars(t *testing.T) {
	svc, _ := setupCarService(t)

	target := newTestCar("BMW", "320i")
	require.NoError(t, svc.CreateCar(target))
	for _, m := range []string{"520d", "X1", "X3", "118i", "M3"} {
		require.NoError(t, svc.CreateCar(newTestCar("BMW", m)))
	}
	require.NoError(t, svc.CreateCar(newTestCar("Audi", "A4")))

	similar, err := svc.GetSimilarCars(target.ID)
	require.NoError(t, err)
	assert.Len(t, similar, similarCarsLimit)
	for _, car := range similar {
		assert.Equal(t, "BMW", car.Merk)
		assert.NotEqual(t, target.ID, car.ID)
	}
}

func TestGetFilterOptions_CachesAndInvalidates(t *testing.T) {
	svc, _ := setupCarService(t)

	require.NoError(t, svc.CreateCar(newTestCar("BMW", "320i")))

	opts, err := svc.GetFilterOptions()
	require.NoError(t, err)
	assert.Equal(t, []string{"BMW"}, opts.Merken)

	// creating a car invalidates the cached options
	require.NoError(t, svc.CreateCar(newTestCar("Audi", "A4")))

	opts, err = svc.GetFilterOptions()
	require.NoError(t, err)
	assert.Equal(t, []string{"Audi", "BMW"}, opts.Merken)
}
