package repository

import (
	"errors"
	"strings"

	"tourmarket/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapError converts storage failures into domain errors.
// notFound and conflict are the caller-facing messages for the two expected failures.
func mapError(op string, err error, notFound, conflict string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != "" {
		return domain.NotFound(notFound)
	}
	if isUniqueConstraintError(err) && conflict != "" {
		return domain.Conflict(conflict)
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Internal(op, err)
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique failed")
}
