package services

import (
	"regexp"
	"strings"

	"garage_manager/internal/apperr"
	"garage_manager/internal/repository"

	"github.com/pkg/errors"
)

var (
	plateRe    = regexp.MustCompile(`^\d{2}[A-Z]\d{5}$`)
	phoneRe    = regexp.MustCompile(`^\d{10}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// NormalizePlate trims and upper-cases a plate as typed by staff. Callers
// match ValidPlate on the result, so the accepted input format is
// case-insensitive ("51a12345" is stored as "51A12345"); only stored plates
// are strictly upper-case.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func ValidPlate(plate string) bool       { return plateRe.MatchString(plate) }
func ValidPhone(phone string) bool       { return phoneRe.MatchString(phone) }
func ValidUsername(username string) bool { return usernameRe.MatchString(username) }

const msgServerError = "Lỗi server"

// fromRepo maps a repository error to the service error taxonomy.
func fromRepo(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(notFound)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.Conflict("Dữ liệu đã tồn tại")
	}
	return apperr.Internal(msgServerError, err)
}

func internal(err error) error {
	return apperr.Internal(msgServerError, err)
}
