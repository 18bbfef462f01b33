package service

import (
	"context"
	"errors"
	"io"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/internal/app/repository"
	"github.com/kraakman/autoservice-backend/internal/storage"
	"github.com/kraakman/autoservice-backend/pkg/logger"
)

var (
	ErrCarNotFound          = errors.New("car not found")
	ErrImageNotFound        = errors.New("image not found")
	ErrConfirmationMismatch = errors.New("confirmation does not match car brand")
	ErrInvalidImageType     = errors.New("invalid image type")
	ErrImageTooLarge        = errors.New("image file too large")
	ErrInvalidMoveDirection = errors.New("invalid move direction")
)

const (
	similarCarsLimit = 4
	maxImageSize     = 10 << 20 // 10 MB
	uploadWorkers    = 4

	filterOptionsCacheKey = "filter-options"
	filterOptionsCacheTTL = 5 * time.Minute
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// PhotoStore stores and removes car photos.
type PhotoStore interface {
	Upload(ctx context.Context, carID uint, filename, contentType string, body io.Reader) (*storage.UploadResult, error)
	Remove(ctx context.Context, keys []string) error
}

// ImageUpload is one incoming photo file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

type CarService interface {
	ListCars(status model.CarStatus) ([]model.Car, error)
	GetFilterOptions() (CarFilterOptions, error)
	GetCarByID(id uint) (*model.Car, error)
	GetSimilarCars(id uint) ([]model.Car, error)
	CreateCar(car *model.Car) error
	UpdateCar(id uint, updated *model.Car) (*model.Car, error)
	DeleteCar(ctx context.Context, id uint, confirmMerk string) error
	UploadImages(ctx context.Context, carID uint, uploads []ImageUpload) ([]model.CarImage, error)
	MoveImage(carID, imageID uint, direction MoveDirection) ([]model.CarImage, error)
	DeleteImage(ctx context.Context, carID, imageID uint) error
	ListImages(carID uint) ([]model.CarImage, error)
}

type carService struct {
	carRepo   repository.CarRepository
	imageRepo repository.CarImageRepository
	photos    PhotoStore
	cache     *gocache.Cache
}

func NewCarService(carRepo repository.CarRepository, imageRepo repository.CarImageRepository, photos PhotoStore) CarService {
	return &carService{
		carRepo:   carRepo,
		imageRepo: imageRepo,
		photos:    photos,
		cache:     gocache.New(filterOptionsCacheTTL, 10*time.Minute),
	}
}

func (s *carService) ListCars(status model.CarStatus) ([]model.Car, error) {
	if status == "" {
		return s.carRepo.FindAll()
	}
	return s.carRepo.FindByStatus(status)
}

// GetFilterOptions derives the filter choices from the cars currently for
// sale. The result is cached briefly because every inventory page load
// asks for it.
func (s *carService) GetFilterOptions() (CarFilterOptions, error) {
	if cached, found := s.cache.Get(filterOptionsCacheKey); found {
		return cached.(CarFilterOptions), nil
	}

	cars, err := s.carRepo.FindByStatus(model.StatusAanbod)
	if err != nil {
		return CarFilterOptions{}, err
	}

	opts := DeriveFilterOptions(cars)
	s.cache.Set(filterOptionsCacheKey, opts, gocache.DefaultExpiration)
	return opts, nil
}

func (s *carService) GetCarByID(id uint) (*model.Car, error) {
	car, err := s.carRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return car, nil
}

// GetSimilarCars returns up to four other cars of the same brand that are
// still for sale, newest first.
func (s *carService) GetSimilarCars(id uint) ([]model.Car, error) {
	car, err := s.GetCarByID(id)
	if err != nil {
		return nil, err
	}
	return s.carRepo.FindSimilar(car, similarCarsLimit)
}

func (s *carService) CreateCar(car *model.Car) error {
	if car.Status == "" {
		car.Status = model.StatusAanbod
	}
	normalizeFlags(car)

	if err := s.carRepo.Create(car); err != nil {
		return err
	}

	s.cache.Delete(filterOptionsCacheKey)
	logger.Info("Car created", map[string]interface{}{
		"car_id": car.ID,
		"merk":   car.Merk,
		"model":  car.Model,
	})
	return nil
}

func (s *carService) UpdateCar(id uint, updated *model.Car) (*model.Car, error) {
	car, err := s.GetCarByID(id)
	if err != nil {
		return nil, err
	}

	updated.ID = car.ID
	updated.CreatedAt = car.CreatedAt
	updated.Images = car.Images
	if updated.Status == "" {
		updated.Status = car.Status
	}
	normalizeFlags(updated)

	if err := s.carRepo.Update(updated); err != nil {
		return nil, err
	}

	s.cache.Delete(filterOptionsCacheKey)
	logger.Info("Car updated", map[string]interface{}{
		"car_id": updated.ID,
		"merk":   updated.Merk,
		"status": updated.Status,
	})
	return updated, nil
}

// normalizeFlags enforces the flag rules: a sold car is never reserved or
// announced, and a reserved car is no longer "coming soon".
func normalizeFlags(car *model.Car) {
	if car.Status == model.StatusVerkocht {
		car.Gereserveerd = false
		car.BinnenkortBeschikbaar = false
		return
	}
	if car.Gereserveerd {
		car.BinnenkortBeschikbaar = false
	}
}

// DeleteCar removes a car after the caller confirms by typing the car's
// brand. The confirmation is case-sensitive. Stored photos are removed
// best-effort before the database rows go.
func (s *carService) DeleteCar(ctx context.Context, id uint, confirmMerk string) error {
	car, err := s.GetCarByID(id)
	if err != nil {
		return err
	}

	if confirmMerk != car.Merk {
		logger.Warn("Car delete rejected, confirmation mismatch", map[string]interface{}{
			"car_id": id,
		})
		return ErrConfirmationMismatch
	}

	keys := make([]string, 0, len(car.Images))
	for _, image := range car.Images {
		keys = append(keys, image.ObjectKey)
	}
	if err := s.photos.Remove(ctx, keys); err != nil {
		logger.Error("Failed to remove photos for deleted car, continuing", err, map[string]interface{}{
			"car_id": id,
		})
	}

	if err := s.carRepo.Delete(id); err != nil {
		return err
	}

	s.cache.Delete(filterOptionsCacheKey)
	logger.Info("Car deleted", map[string]interface{}{
		"car_id": id,
		"merk":   car.Merk,
	})
	return nil
}

// UploadImages stores new photos and appends them after the car's current
// photos. Files upload concurrently, display order follows the request
// order.
func (s *carService) UploadImages(ctx context.Context, carID uint, uploads []ImageUpload) ([]model.CarImage, error) {
	if _, err := s.GetCarByID(carID); err != nil {
		return nil, err
	}

	for _, upload := range uploads {
		if err := storage.ValidateContentType(upload.ContentType, allowedImageTypes); err != nil {
			return nil, ErrInvalidImageType
		}
		if err := storage.ValidateFileSize(upload.Size, maxImageSize); err != nil {
			return nil, ErrImageTooLarge
		}
	}

	maxOrder, err := s.imageRepo.MaxDisplayOrder(carID)
	if err != nil {
		return nil, err
	}

	results := make([]*storage.UploadResult, len(uploads))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uploadWorkers)

	for i, upload := range uploads {
		i, upload := i, upload
		group.Go(func() error {
			result, err := s.photos.Upload(groupCtx, carID, upload.Filename, upload.ContentType, upload.Body)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		// clean up whatever made it to storage before the failure
		var uploaded []string
		for _, result := range results {
			if result != nil {
				uploaded = append(uploaded, result.Key)
			}
		}
		if removeErr := s.photos.Remove(ctx, uploaded); removeErr != nil {
			logger.Error("Failed to clean up partial upload", removeErr, map[string]interface{}{
				"car_id": carID,
			})
		}
		return nil, err
	}

	images := make([]model.CarImage, 0, len(results))
	for i, result := range results {
		image := model.CarImage{
			CarID:        carID,
			URL:          result.URL,
			ObjectKey:    result.Key,
			DisplayOrder: maxOrder + 1 + i,
		}
		if err := s.imageRepo.Create(&image); err != nil {
			return nil, err
		}
		images = append(images, image)
	}

	logger.Info("Car images uploaded", map[string]interface{}{
		"car_id": carID,
		"count":  len(images),
	})
	return images, nil
}

// MoveImage swaps a photo with its neighbor and renumbers the car's
// photos back to a dense 0..n-1 sequence.
func (s *carService) MoveImage(carID, imageID uint, direction MoveDirection) ([]model.CarImage, error) {
	if direction != MoveUp && direction != MoveDown {
		return nil, ErrInvalidMoveDirection
	}

	images, err := s.imageRepo.FindByCarID(carID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, image := range images {
		if image.ID == imageID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrImageNotFound
	}

	target := index - 1
	if direction == MoveDown {
		target = index + 1
	}
	if target >= 0 && target < len(images) {
		images[index], images[target] = images[target], images[index]
	}

	return s.renumberImages(images)
}

// DeleteImage removes one photo and closes the gap in the display order.
func (s *carService) DeleteImage(ctx context.Context, carID, imageID uint) error {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	if image.CarID != carID {
		return ErrImageNotFound
	}

	if err := s.photos.Remove(ctx, []string{image.ObjectKey}); err != nil {
		logger.Error("Failed to remove photo from storage, continuing", err, map[string]interface{}{
			"image_id": imageID,
		})
	}

	if err := s.imageRepo.Delete(imageID); err != nil {
		return err
	}

	remaining, err := s.imageRepo.FindByCarID(carID)
	if err != nil {
		return err
	}
	if _, err := s.renumberImages(remaining); err != nil {
		return err
	}

	logger.Info("Car image deleted", map[string]interface{}{
		"car_id":   carID,
		"image_id": imageID,
	})
	return nil
}

func (s *carService) ListImages(carID uint) ([]model.CarImage, error) {
	if _, err := s.GetCarByID(carID); err != nil {
		return nil, err
	}
	return s.imageRepo.FindByCarID(carID)
}

func (s *carService) renumberImages(images []model.CarImage) ([]model.CarImage, error) {
	for i := range images {
		if images[i].DisplayOrder != i {
			if err := s.imageRepo.UpdateDisplayOrder(images[i].ID, i); err != nil {
				return nil, err
			}
			images[i].DisplayOrder = i
		}
	}
	return images, nil
}
