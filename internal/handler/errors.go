package handler

import (
	"errors"
	"net/http"

	"github.com/smenuberu/dashboard/internal/backend"
	"github.com/smenuberu/dashboard/internal/store"
	"github.com/smenuberu/dashboard/internal/workflow"
)

// errorStatus picks the status of a page that shows err in its error slot.
func errorStatus(err error) int {
	var (
		limitErr  *workflow.PhotoLimitError
		statusErr *backend.StatusError
	)
	switch {
	case workflow.IsValidation(err), errors.As(err, &limitErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &statusErr) && statusErr.Status == http.StatusUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

// reportable tells whether err is worth an error log line. User mistakes and
// duplicate submissions are not.
func reportable(err error) bool {
	return errorStatus(err) == http.StatusBadGateway
}
