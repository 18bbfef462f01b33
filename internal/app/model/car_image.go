package model

import "time"

// CarImage is one photo belonging to a car. DisplayOrder defines the
// gallery sequence and is kept dense (0..n-1) by the reorder and delete
// operations. ObjectKey is the storage key, needed for object deletes.
type CarImage struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CarID        uint      `gorm:"not null;index" json:"car_id"`
	URL          string    `gorm:"not null" json:"url"`
	ObjectKey    string    `gorm:"not null" json:"-"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func (CarImage) TableName() string {
	return "car_images"
}
