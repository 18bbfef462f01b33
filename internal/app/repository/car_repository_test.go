package repository

import (
	"testing"
	"time"

	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCarRepo(t *testing.T) (CarRepository, *gorm.DB) {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	return NewCarRepository(database), database
}

func createTestCar(t *testing.T, repo CarRepository, merk, carModel string, status model.CarStatus, createdAt time.Time) *model.Car {
	t.Helper()

	car := &model.Car{
		Merk:     merk,
		Model:    carModel,
		Bouwjaar: 2020,
		Prijs:    15000,
		Status:   status,
	}
	require.NoError(t, repo.Create(car))
	car.CreatedAt = createdAt
	require.NoError(t, repo.Update(car))
	return car
}

func TestCarRepository_FindByStatus(t *testing.T) {
	repo, _ := setupCarRepo(t)

	now := time.Now()
	createTestCar(t, repo, "Volkswagen", "Golf", model.StatusAanbod, now.Add(-2*time.Hour))
	createTestCar(t, repo, "BMW", "320i", model.StatusAanbod, now.Add(-1*time.Hour))
	createTestCar(t, repo, "Audi", "A4", model.StatusVerkocht, now)

	aanbod, err := repo.FindByStatus(model.StatusAanbod)
	require.NoError(t, err)
	require.Len(t, aanbod, 2)

	// newest first
	assert.Equal(t, "BMW", aanbod[0].Merk)
	assert.Equal(t, "Volkswagen", aanbod[1].Merk)

	verkocht, err := repo.FindByStatus(model.StatusVerkocht)
	require.NoError(t, err)
	require.Len(t, verkocht, 1)
	assert.Equal(t, "Audi", verkocht[0].Merk)
}

func TestCarRepository_FindByID_PreloadsOrderedImages(t *testing.T) {
	repo, database := setupCarRepo(t)

	car := createTestCar(t, repo, "Volvo", "V60", model.StatusAanbod, time.Now())

	imageRepo := NewCarImageRepository(database)
	require.NoError(t, imageRepo.Create(&model.CarImage{CarID: car.ID, URL: "b.jpg", ObjectKey: "k2", DisplayOrder: 1}))
	require.NoError(t, imageRepo.Create(&model.CarImage{CarID: car.ID, URL: "a.jpg", ObjectKey: "k1", DisplayOrder: 0}))

	found, err := repo.FindByID(car.ID)
	require.NoError(t, err)
	require.Len(t, found.Images, 2)
	assert.Equal(t, "a.jpg", found.Images[0].URL)
	assert.Equal(t, "b.jpg", found.Images[1].URL)
}

func TestCarRepository_FindByID_NotFound(t *testing.T) {
	repo, _ := setupCarRepo(t)

	_, err := repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCarRepository_FindSimilar(t *testing.T) {
	repo, _ := setupCarRepo(t)

	now := time.Now()
	target := createTestCar(t, repo, "BMW", "320i", model.StatusAanbod, now.Add(-5*time.Hour))
	createTestCar(t, repo, "BMW", "520d", model.StatusAanbod, now.Add(-4*time.Hour))
	createTestCar(t, repo, "BMW", "X3", model.StatusAanbod, now.Add(-3*time.Hour))
	createTestCar(t, repo, "BMW", "118i", model.StatusVerkocht, now.Add(-2*time.Hour))
	createTestCar(t, repo, "Audi", "A6", model.StatusAanbod, now.Add(-1*time.Hour))

	similar, err := repo.FindSimilar(target, 4)
	require.NoError(t, err)
	require.Len(t, similar, 2)

	// same brand, for sale only, excluding the car itself, newest first
	assert.Equal(t, "X3", similar[0].Model)
	assert.Equal(t, "520d", similar[1].Model)
	for _, c := range similar {
		assert.NotEqual(t, target.ID, c.ID)
		assert.Equal(t, model.StatusAanbod, c.Status)
	}
}

func TestCarRepository_Delete_RemovesImages(t *testing.T) {
	repo, database := setupCarRepo(t)

	car := createTestCar(t, repo, "Opel", "Astra", model.StatusAanbod, time.Now())

	imageRepo := NewCarImageRepository(database)
	require.NoError(t, imageRepo.Create(&model.CarImage{CarID: car.ID, URL: "a.jpg", ObjectKey: "k1", DisplayOrder: 0}))

	require.NoError(t, repo.Delete(car.ID))

	_, err := repo.FindByID(car.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	images, err := imageRepo.FindByCarID(car.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestCarImageRepository_MaxDisplayOrder(t *testing.T) {
	repo, database := setupCarRepo(t)

	car := createTestCar(t, repo, "Ford", "Focus", model.StatusAanbod, time.Now())
	imageRepo := NewCarImageRepository(database)

	// no images yet
	max, err := imageRepo.MaxDisplayOrder(car.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, max)

	require.NoError(t, imageRepo.Create(&model.CarImage{CarID: car.ID, URL: "a.jpg", ObjectKey: "k1", DisplayOrder: 0}))
	require.NoError(t, imageRepo.Create(&model.CarImage{CarID: car.ID, URL: "b.jpg", ObjectKey: "k2", DisplayOrder: 3}))

	max, err = imageRepo.MaxDisplayOrder(car.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, max)
}
