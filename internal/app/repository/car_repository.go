package repository

import (
	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/pkg/logger"
	"gorm.io/gorm"
)

type CarRepository interface {
	Create(car *model.Car) error
	FindAll() ([]model.Car, error)
	FindByStatus(status model.CarStatus) ([]model.Car, error)
	FindByID(id uint) (*model.Car, error)
	FindSimilar(car *model.Car, limit int) ([]model.Car, error)
	Update(car *model.Car) error
	Delete(id uint) error
}

type carRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Car{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("car_images.display_order ASC")
		})
}

func (r *carRepository) Create(car *model.Car) error {
	logger.Debug("Creating car in database", map[string]interface{}{
		"merk":     car.Merk,
		"model":    car.Model,
		"bouwjaar": car.Bouwjaar,
		"prijs":    car.Prijs,
	})

	if err := r.db.Create(car).Error; err != nil {
		logger.Error("Failed to create car in database", err, map[string]interface{}{
			"merk":  car.Merk,
			"model": car.Model,
		})
		return err
	}

	logger.Debug("Car created in database", map[string]interface{}{
		"car_id": car.ID,
		"merk":   car.Merk,
		"model":  car.Model,
	})
	return nil
}

func (r *carRepository) FindAll() ([]model.Car, error) {
	logger.Debug("Finding all cars in database", nil)

	var cars []model.Car
	if err := r.baseQuery().Order("cars.created_at DESC").Find(&cars).Error; err != nil {
		logger.Error("Failed to find cars in database", err)
		return nil, err
	}

	logger.Debug("Cars found in database", map[string]interface{}{
		"count": len(cars),
	})
	return cars, nil
}

func (r *carRepository) FindByStatus(status model.CarStatus) ([]model.Car, error) {
	logger.Debug("Finding cars by status in database", map[string]interface{}{
		"status": status,
	})

	var cars []model.Car
	if err := r.baseQuery().
		Where("cars.status = ?", status).
		Order("cars.created_at DESC").
		Find(&cars).Error; err != nil {
		logger.Error("Failed to find cars by status in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}

	logger.Debug("Cars found by status in database", map[string]interface{}{
		"status": status,
		"count":  len(cars),
	})
	return cars, nil
}

func (r *carRepository) FindByID(id uint) (*model.Car, error) {
	logger.Debug("Finding car by ID in database", map[string]interface{}{
		"car_id": id,
	})

	var car model.Car
	if err := r.baseQuery().First(&car, id).Error; err != nil {
		logger.Error("Failed to find car by ID in database", err, map[string]interface{}{
			"car_id": id,
		})
		return nil, err
	}

	logger.Debug("Car found by ID in database", map[string]interface{}{
		"car_id": car.ID,
		"merk":   car.Merk,
		"model":  car.Model,
	})
	return &car, nil
}

// FindSimilar returns cars of the same brand that are still for sale,
// excluding the car itself, newest first.
func (r *carRepository) FindSimilar(car *model.Car, limit int) ([]model.Car, error) {
	logger.Debug("Finding similar cars in database", map[string]interface{}{
		"car_id": car.ID,
		"merk":   car.Merk,
		"limit":  limit,
	})

	var cars []model.Car
	if err := r.baseQuery().
		Where("cars.merk = ?", car.Merk).
		Where("cars.status = ?", model.StatusAanbod).
		Where("cars.id <> ?", car.ID).
		Order("cars.created_at DESC").
		Limit(limit).
		Find(&cars).Error; err != nil {
		logger.Error("Failed to find similar cars in database", err, map[string]interface{}{
			"car_id": car.ID,
			"merk":   car.Merk,
		})
		return nil, err
	}

	logger.Debug("Similar cars found in database", map[string]interface{}{
		"car_id": car.ID,
		"count":  len(cars),
	})
	return cars, nil
}

func (r *carRepository) Update(car *model.Car) error {
	logger.Debug("Updating car in database", map[string]interface{}{
		"car_id": car.ID,
		"merk":   car.Merk,
		"model":  car.Model,
	})

	if err := r.db.Save(car).Error; err != nil {
		logger.Error("Failed to update car in database", err, map[string]interface{}{
			"car_id": car.ID,
		})
		return err
	}

	logger.Debug("Car updated in database", map[string]interface{}{
		"car_id": car.ID,
	})
	return nil
}

// Delete removes the car and its image rows in a single transaction.
func (r *carRepository) Delete(id uint) error {
	logger.Debug("Deleting car from database", map[string]interface{}{
		"car_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("car_id = ?", id).Delete(&model.CarImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Car{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete car from database", err, map[string]interface{}{
			"car_id": id,
		})
		return err
	}

	logger.Debug("Car deleted from database", map[string]interface{}{
		"car_id": id,
	})
	return nil
}
