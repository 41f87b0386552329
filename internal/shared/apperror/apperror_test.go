package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and message", func(t *testing.T) {
		httpErr := apperror.ToHTTP(apperror.ErrMethodNotAllowed)
		assert.Equal(t, http.StatusMethodNotAllowed, httpErr.Status)
		assert.Equal(t, apperror.CodeMethodNotAllowed, httpErr.Code)
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", apperror.ErrStorageFailure.WithCause(errors.New("disk full")))
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, apperror.CodeStorageFailure, httpErr.Code)
		assert.Equal(t, "Storage operation failed", httpErr.Message)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		httpErr := apperror.ToHTTP(errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, "Internal server error", httpErr.Message)
	})
}

func TestAppError_Is(t *testing.T) {
	wrapped := apperror.ErrNotFound.WithCause(errors.New("no rows"))
	assert.ErrorIs(t, wrapped, apperror.ErrNotFound)
	assert.NotErrorIs(t, wrapped, apperror.ErrInternal)
}

func TestMapValidationError(t *testing.T) {
	type payload struct {
		BasicSalary float64 `validate:"gte=0"`
		FullName    string  `validate:"required"`
	}
	v := validator.New()

	err := v.Struct(payload{BasicSalary: 10})
	mapped := apperror.MapValidationError(err)
	assert.Equal(t, "Full Name is required", apperror.ToHTTP(mapped).Message)

	err = v.Struct(payload{BasicSalary: -1, FullName: "x"})
	mapped = apperror.MapValidationError(err)
	assert.Equal(t, "Basic Salary is invalid", apperror.ToHTTP(mapped).Message)

	mapped = apperror.MapValidationError(errors.New("unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, apperror.ToHTTP(mapped).Status)
}

func TestInit_JSONNamesAndNotBlank(t *testing.T) {
	apperror.Init()
	apperror.Init()

	type payload struct {
		FullName string `json:"fullName" binding:"notblank"`
	}

	err := binding.Validator.ValidateStruct(&payload{FullName: "  "})

	var verrs validator.ValidationErrors
	if assert.ErrorAs(t, err, &verrs) {
		assert.Equal(t, "fullName", verrs[0].Field())
		assert.Equal(t, "notblank", verrs[0].Tag())
	}
	assert.EqualError(t, apperror.MapValidationError(err), "Full Name is invalid")
	assert.NoError(t, binding.Validator.ValidateStruct(&payload{FullName: "Anu"}))
}
