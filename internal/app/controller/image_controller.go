package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kraakman/autoservice-backend/internal/app/service"
	apperrors "github.com/kraakman/autoservice-backend/internal/errors"
	"github.com/kraakman/autoservice-backend/internal/middleware"
)

type ImageController struct {
	carService service.CarService
}

func NewImageController(carService service.CarService) *ImageController {
	return &ImageController{
		carService: carService,
	}
}

type MoveImageRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// UploadImages stores new photos for a car (admin only).
// POST /api/v1/admin/cars/:id/images
func (ctrl *ImageController) UploadImages(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	carID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.InvalidInput(c, "multipart form verwacht")
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Geen bestanden ontvangen.", nil)
		return
	}

	uploads := make([]service.ImageUpload, 0, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			apperrors.InvalidInput(c, "bestand kon niet worden gelezen")
			return
		}
		defer src.Close()

		uploads = append(uploads, service.ImageUpload{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
			Body:        src,
		})
	}

	images, err := ctrl.carService.UploadImages(c.Request.Context(), carID, uploads)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCarNotFound):
			apperrors.CarNotFoundError(c)
		case errors.Is(err, service.ErrInvalidImageType):
			apperrors.BadRequest(c, apperrors.ImageInvalidFileType,
				"Alleen JPG, PNG en WebP afbeeldingen zijn toegestaan.", nil)
		case errors.Is(err, service.ErrImageTooLarge):
			apperrors.BadRequest(c, apperrors.ImageFileTooLarge,
				"Een afbeelding mag maximaal 10 MB zijn.", nil)
		default:
			log.Error("Failed to upload images", err, map[string]interface{}{
				"car_id": carID,
				"count":  len(uploads),
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ImageUploadFailed,
				"Uploaden van de afbeeldingen is mislukt.", nil)
		}
		return
	}

	log.Info("Images uploaded successfully", map[string]interface{}{
		"car_id": carID,
		"count":  len(images),
	})

	c.JSON(http.StatusCreated, gin.H{
		"images": images,
		"count":  len(images),
	})
}

// ListImages returns a car's photos in display order (admin only).
// GET /api/v1/admin/cars/:id/images
func (ctrl *ImageController) ListImages(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	carID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	images, err := ctrl.carService.ListImages(carID)
	if err != nil {
		if errors.Is(err, service.ErrCarNotFound) {
			apperrors.CarNotFoundError(c)
			return
		}
		log.Error("Failed to list images", err, map[string]interface{}{
			"car_id": carID,
		})
		apperrors.DatabaseError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"images": images,
		"count":  len(images),
	})
}

// MoveImage moves a photo one position up or down (admin only).
// PUT /api/v1/admin/cars/:id/images/:imageId/move
func (ctrl *ImageController) MoveImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	carID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "imageId")
	if !ok {
		return
	}

	var req MoveImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.InvalidInput(c, err.Error())
		return
	}

	images, err := ctrl.carService.MoveImage(carID, imageID, service.MoveDirection(req.Direction))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			apperrors.ImageNotFoundError(c)
		case errors.Is(err, service.ErrInvalidMoveDirection):
			apperrors.InvalidInput(c, "direction moet up of down zijn")
		default:
			log.Error("Failed to move image", err, map[string]interface{}{
				"car_id":   carID,
				"image_id": imageID,
			})
			apperrors.DatabaseError(c)
		}
		return
	}

	log.Info("Image moved successfully", map[string]interface{}{
		"car_id":    carID,
		"image_id":  imageID,
		"direction": req.Direction,
	})

	c.JSON(http.StatusOK, gin.H{
		"images": images,
	})
}

// DeleteImage removes one photo (admin only).
// DELETE /api/v1/admin/cars/:id/images/:imageId
func (ctrl *ImageController) DeleteImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	carID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "imageId")
	if !ok {
		return
	}

	if err := ctrl.carService.DeleteImage(c.Request.Context(), carID, imageID); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			apperrors.ImageNotFoundError(c)
			return
		}
		log.Error("Failed to delete image", err, map[string]interface{}{
			"car_id":   carID,
			"image_id": imageID,
		})
		apperrors.DatabaseError(c)
		return
	}

	log.Info("Image deleted successfully", map[string]interface{}{
		"car_id":   carID,
		"image_id": imageID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Afbeelding verwijderd.",
	})
}
