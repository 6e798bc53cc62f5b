package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gravadigital/votacion-api/internal/domain/common"
)

// ValidateRequired valida que un campo no esté vacío
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return common.NewValidationError(fieldName, "is required")
	}
	return nil
}

// ValidateMinLength valida la longitud mínima de un string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < minLength {
		return common.NewValidationError(fieldName, "must be at least "+strconv.Itoa(minLength)+" characters long")
	}
	return nil
}

// ValidateMaxLength valida la longitud máxima de un string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return common.NewValidationError(fieldName, "must be at most "+strconv.Itoa(maxLength)+" characters long")
	}
	return nil
}

// ValidateUUID valida que un string sea un UUID válido
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return common.NewValidationError(fieldName, "must be a valid UUID")
	}
	return nil
}

// ValidateEmail valida formato básico de email
func ValidateEmail(email, fieldName string) error {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t\r\n") {
		return common.NewValidationError(fieldName, "must have a valid email format")
	}
	return nil
}

// ValidatePositive valida que un entero sea mayor que cero
func ValidatePositive(value int, fieldName string) error {
	if value <= 0 {
		return common.NewValidationError(fieldName, "must be a positive integer")
	}
	return nil
}

// ValidateLatLng valida un par de coordenadas geográficas
func ValidateLatLng(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return common.NewValidationError("lat", "must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return common.NewValidationError("lng", "must be between -180 and 180")
	}
	return nil
}

// CandidateValidation contiene validaciones específicas para candidatos
type CandidateValidation struct{}

// ValidateNombre valida el nombre de un candidato
func (v CandidateValidation) ValidateNombre(nombre string) error {
	if err := ValidateRequired(nombre, "nombre"); err != nil {
		return err
	}
	if err := ValidateMinLength(nombre, 2, "nombre"); err != nil {
		return err
	}
	return ValidateMaxLength(nombre, 120, "nombre")
}

// ValidateNumero valida el número de boleta
func (v CandidateValidation) ValidateNumero(numero int) error {
	return ValidatePositive(numero, "numero")
}

// ValidateText valida campos de texto libres (propuesta, visión, ...)
func (v CandidateValidation) ValidateText(value, fieldName string) error {
	return ValidateMaxLength(value, 5000, fieldName)
}

// VoteValidation contiene validaciones específicas para votos
type VoteValidation struct{}

// ValidateUserID valida el identificador del votante
func (v VoteValidation) ValidateUserID(userID string) error {
	if err := ValidateRequired(userID, "userId"); err != nil {
		return err
	}
	return ValidateMaxLength(userID, 256, "userId")
}

// ValidateCorreo valida el correo del votante
func (v VoteValidation) ValidateCorreo(correo string) error {
	if err := ValidateRequired(correo, "correo"); err != nil {
		return err
	}
	if err := ValidateMaxLength(correo, 254, "correo"); err != nil {
		return err
	}
	return ValidateEmail(correo, "correo")
}

// ValidateCandidateID valida la referencia al candidato
func (v VoteValidation) ValidateCandidateID(candidateID string) error {
	return ValidateRequired(candidateID, "candidatoId")
}
