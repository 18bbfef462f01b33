package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope every error reply uses.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func NewErrorResponse(code, message string, details interface{}) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func RespondWithError(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, NewErrorResponse(code, message, details))
}

// ==================== 400 Bad Request ====================

func BadRequest(c *gin.Context, code, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, code, message, details)
}

func InvalidInput(c *gin.Context, details interface{}) {
	BadRequest(c, ValidationInvalidInput, "Ongeldige invoer.", details)
}

func InvalidID(c *gin.Context, details interface{}) {
	BadRequest(c, ValidationInvalidID, "Ongeldig ID-formaat.", details)
}

// ==================== 401 Unauthorized ====================

func Unauthorized(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusUnauthorized, code, message, nil)
}

func InvalidCredentials(c *gin.Context) {
	Unauthorized(c, AuthInvalidCredentials, "E-mailadres of wachtwoord is onjuist.")
}

func TokenExpired(c *gin.Context) {
	Unauthorized(c, AuthTokenExpired, "De sessie is verlopen. Log opnieuw in.")
}

func TokenInvalid(c *gin.Context) {
	Unauthorized(c, AuthTokenInvalid, "Ongeldig toegangstoken.")
}

// ==================== 403 Forbidden ====================

func Forbidden(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusForbidden, code, message, nil)
}

func AdminOnly(c *gin.Context) {
	Forbidden(c, AuthzAdminOnly, "Alleen beheerders hebben toegang tot deze functie.")
}

// ==================== 404 Not Found ====================

func NotFound(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusNotFound, code, message, nil)
}

func CarNotFoundError(c *gin.Context) {
	NotFound(c, CarNotFound, "Auto niet gevonden.")
}

func ImageNotFoundError(c *gin.Context) {
	NotFound(c, ImageNotFound, "Foto niet gevonden.")
}

// ==================== 409 Conflict ====================

func Conflict(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusConflict, code, message, nil)
}

func ConfirmationMismatch(c *gin.Context) {
	Conflict(c, CarConfirmationMismatch, "De bevestiging komt niet overeen met het merk van de auto.")
}

// ==================== 500 Internal Server Error ====================

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Er is een interne fout opgetreden. Probeer het later opnieuw."
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message, nil)
}

func DatabaseError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, InternalDatabaseError,
		"Er is een databasefout opgetreden. Probeer het later opnieuw.", nil)
}

// ==================== 503 Service Unavailable ====================

func ServiceUnavailable(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusServiceUnavailable, code, message, nil)
}

func ReviewsUnavailableError(c *gin.Context) {
	ServiceUnavailable(c, ReviewsUnavailable,
		"Reviews zijn momenteel niet beschikbaar. Probeer het later opnieuw.")
}
