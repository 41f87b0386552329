package payrollerrors

import (
	"net/http"

	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"
)

var (
	ErrRenderFailed = apperror.New(
		apperror.CodeRenderFailure,
		"Failed to generate salary slip",
		http.StatusInternalServerError,
	)
)
