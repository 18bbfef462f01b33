package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ParsedError carries a classified database error back to the controller layer.
type ParsedError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *ParsedError) Error() string {
	return e.Message
}

// ParseError classifies gorm and postgres errors into a ParsedError.
// Unknown errors come back as a generic database error.
func ParseError(err error) *ParsedError {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ParsedError{
			Code:       ResourceNotFound,
			Message:    "De opgevraagde gegevens zijn niet gevonden.",
			StatusCode: 404,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return &ParsedError{
				Code:       ResourceAlreadyExists,
				Message:    "Deze gegevens bestaan al.",
				StatusCode: 409,
			}
		case "23503": // foreign_key_violation
			return &ParsedError{
				Code:       ResourceConflict,
				Message:    "Deze gegevens zijn gekoppeld aan andere gegevens.",
				StatusCode: 409,
			}
		case "23502": // not_null_violation
			return &ParsedError{
				Code:       ValidationRequired,
				Message:    "Een verplicht veld ontbreekt.",
				StatusCode: 400,
			}
		case "23514": // check_violation
			return &ParsedError{
				Code:       ValidationInvalidInput,
				Message:    "De ingevoerde gegevens zijn ongeldig.",
				StatusCode: 400,
			}
		}
	}

	// sqlite in tests reports constraint errors as plain strings
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return &ParsedError{
			Code:       ResourceAlreadyExists,
			Message:    "Deze gegevens bestaan al.",
			StatusCode: 409,
		}
	}

	return &ParsedError{
		Code:       InternalDatabaseError,
		Message:    "Er is een databasefout opgetreden.",
		StatusCode: 500,
	}
}
