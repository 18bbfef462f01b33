package repository

import (
	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/pkg/logger"
	"gorm.io/gorm"
)

type CarImageRepository interface {
	Create(image *model.CarImage) error
	FindByCarID(carID uint) ([]model.CarImage, error)
	FindByID(id uint) (*model.CarImage, error)
	MaxDisplayOrder(carID uint) (int, error)
	UpdateDisplayOrder(id uint, order int) error
	Delete(id uint) error
}

type carImageRepository struct {
	db *gorm.DB
}

func NewCarImageRepository(db *gorm.DB) CarImageRepository {
	return &carImageRepository{db: db}
}

func (r *carImageRepository) Create(image *model.CarImage) error {
	logger.Debug("Creating car image in database", map[string]interface{}{
		"car_id":        image.CarID,
		"display_order": image.DisplayOrder,
	})

	if err := r.db.Create(image).Error; err != nil {
		logger.Error("Failed to create car image in database", err, map[string]interface{}{
			"car_id": image.CarID,
		})
		return err
	}

	logger.Debug("Car image created in database", map[string]interface{}{
		"image_id": image.ID,
		"car_id":   image.CarID,
	})
	return nil
}

func (r *carImageRepository) FindByCarID(carID uint) ([]model.CarImage, error) {
	var images []model.CarImage
	if err := r.db.Where("car_id = ?", carID).
		Order("display_order ASC").
		Find(&images).Error; err != nil {
		logger.Error("Failed to find car images in database", err, map[string]interface{}{
			"car_id": carID,
		})
		return nil, err
	}
	return images, nil
}

func (r *carImageRepository) FindByID(id uint) (*model.CarImage, error) {
	var image model.CarImage
	if err := r.db.First(&image, id).Error; err != nil {
		logger.Error("Failed to find car image by ID in database", err, map[string]interface{}{
			"image_id": id,
		})
		return nil, err
	}
	return &image, nil
}

// MaxDisplayOrder returns the highest display order for a car, or -1 when
// the car has no images yet.
func (r *carImageRepository) MaxDisplayOrder(carID uint) (int, error) {
	var max *int
	if err := r.db.Model(&model.CarImage{}).
		Where("car_id = ?", carID).
		Select("MAX(display_order)").
		Scan(&max).Error; err != nil {
		logger.Error("Failed to get max display order", err, map[string]interface{}{
			"car_id": carID,
		})
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (r *carImageRepository) UpdateDisplayOrder(id uint, order int) error {
	if err := r.db.Model(&model.CarImage{}).
		Where("id = ?", id).
		Update("display_order", order).Error; err != nil {
		logger.Error("Failed to update image display order", err, map[string]interface{}{
			"image_id": id,
			"order":    order,
		})
		return err
	}
	return nil
}

func (r *carImageRepository) Delete(id uint) error {
	logger.Debug("Deleting car image from database", map[string]interface{}{
		"image_id": id,
	})

	if err := r.db.Delete(&model.CarImage{}, id).Error; err != nil {
		logger.Error("Failed to delete car image from database", err, map[string]interface{}{
			"image_id": id,
		})
		return err
	}
	return nil
}
