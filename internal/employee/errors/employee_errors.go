package employeeerrors

import (
	"net/http"

	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployee = apperror.New(
		apperror.CodeInvalidInput,
		"Employee record violates a storage constraint",
		http.StatusBadRequest,
	)
	ErrEmployeeStorage = apperror.New(
		apperror.CodeStorageFailure,
		"Failed to access employee storage",
		http.StatusInternalServerError,
	)
	ErrEmployeeBusy = apperror.New(
		apperror.CodeServiceUnavailable,
		"Employee is being updated by another request, try again",
		http.StatusServiceUnavailable,
	)
)
