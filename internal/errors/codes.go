package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The frontend maps these codes to its own copy; the message field is the
// Dutch default shown when no mapping exists.

const (
	// ==================== Authenticatie (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"

	// ==================== Autorisatie (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validatie (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Auto's (CAR_) ====================
	CarNotFound             = "CAR_NOT_FOUND"
	CarInvalidStatus        = "CAR_INVALID_STATUS"
	CarConfirmationMismatch = "CAR_CONFIRMATION_MISMATCH"

	// ==================== Foto's (IMAGE_) ====================
	ImageNotFound        = "IMAGE_NOT_FOUND"
	ImageInvalidFileType = "IMAGE_INVALID_FILE_TYPE"
	ImageFileTooLarge    = "IMAGE_FILE_TOO_LARGE"
	ImageUploadFailed    = "IMAGE_UPLOAD_FAILED"

	// ==================== Reviews (REVIEW_) ====================
	ReviewsUnavailable = "REVIEWS_UNAVAILABLE"
	ReviewSyncFailed   = "REVIEW_SYNC_FAILED"

	// ==================== Contact (CONTACT_) ====================
	ContactMailFailed = "CONTACT_MAIL_FAILED"

	// ==================== Interne fouten (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
