package employee

import (
	"errors"
	"fmt"
	"testing"

	employeeerrors "github.com/rrayyhanep/Heaven-receipt/internal/employee/errors"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

func TestMapRepositoryError(t *testing.T) {
	tests := []struct {
		name     string
		in       error
		wantCode string
		wantIs   error
	}{
		{"memory not found", ErrRecordNotFound, apperror.CodeNotFound, employeeerrors.ErrEmployeeNotFound},
		{"gorm not found", fmt.Errorf("query: %w", gorm.ErrRecordNotFound), apperror.CodeNotFound, employeeerrors.ErrEmployeeNotFound},
		{"mongo not found", mongo.ErrNoDocuments, apperror.CodeNotFound, employeeerrors.ErrEmployeeNotFound},
		{"constraint", &pgconn.PgError{Code: "23502"}, apperror.CodeInvalidInput, employeeerrors.ErrInvalidEmployee},
		{"other pg error", &pgconn.PgError{Code: "57P01"}, apperror.CodeStorageFailure, employeeerrors.ErrEmployeeStorage},
		{"disk error", errors.New("disk full"), apperror.CodeStorageFailure, employeeerrors.ErrEmployeeStorage},
		{"app error passes", employeeerrors.ErrEmployeeBusy, apperror.CodeServiceUnavailable, employeeerrors.ErrEmployeeBusy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapRepositoryError(tt.in)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Equal(t, tt.wantCode, apperror.ToHTTP(err).Code)
		})
	}

	assert.NoError(t, mapRepositoryError(nil))
}

func TestMapRepositoryError_KeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := mapRepositoryError(cause)
	assert.ErrorIs(t, err, cause)
}
