package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kraakman/autoservice-backend/internal/app/service"
	apperrors "github.com/kraakman/autoservice-backend/internal/errors"
	"github.com/kraakman/autoservice-backend/internal/middleware"
)

type ContactController struct {
	contactService service.ContactService
}

func NewContactController(contactService service.ContactService) *ContactController {
	return &ContactController{
		contactService: contactService,
	}
}

type TestDriveRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	CarID   uint   `json:"car_id" binding:"required"`
}

type ContactMessageRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// RequestTestDrive relays a proefrit request for a specific car.
// POST /api/v1/contact/testdrive
func (ctrl *ContactController) RequestTestDrive(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req TestDriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid test drive request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidInput(c, err.Error())
		return
	}

	err := ctrl.contactService.SendTestDriveRequest(c.Request.Context(), service.TestDriveRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		CarID:   req.CarID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCarNotFound):
			apperrors.CarNotFoundError(c)
		case errors.Is(err, service.ErrMailFailed):
			log.Error("Failed to relay test drive request", err, map[string]interface{}{
				"car_id": req.CarID,
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.ContactMailFailed,
				"Versturen is niet gelukt. Probeer het later opnieuw of bel ons.", nil)
		default:
			log.Error("Failed to handle test drive request", err, nil)
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Test drive request relayed", map[string]interface{}{
		"car_id": req.CarID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Uw aanvraag is verstuurd. Wij nemen zo snel mogelijk contact met u op.",
	})
}

// SendMessage relays a general contact form message.
// POST /api/v1/contact/message
func (ctrl *ContactController) SendMessage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid contact message", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.InvalidInput(c, err.Error())
		return
	}

	err := ctrl.contactService.SendContactMessage(c.Request.Context(), service.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		log.Error("Failed to relay contact message", err, nil)
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.ContactMailFailed,
			"Versturen is niet gelukt. Probeer het later opnieuw of bel ons.", nil)
		return
	}

	log.Info("Contact message relayed", nil)

	c.JSON(http.StatusOK, gin.H{
		"message": "Uw bericht is verstuurd.",
	})
}
