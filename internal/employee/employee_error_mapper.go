package employee

import (
	"errors"
	"strings"

	employeeerrors "github.com/rrayyhanep/Heaven-receipt/internal/employee/errors"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// mapRepositoryError turns a backend error into an *apperror.AppError.
// AppErrors pass through unchanged.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, mongo.ErrNoDocuments) {
		return employeeerrors.ErrEmployeeNotFound
	}

	// Class 23 is integrity constraint violation (not null, check, unique).
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return employeeerrors.ErrInvalidEmployee.WithCause(err)
	}

	return employeeerrors.ErrEmployeeStorage.WithCause(err)
}
