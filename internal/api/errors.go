package api

import (
	"net/http"

	"github.com/go-chi/render"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/logging"
)

// APIError is the JSON body of every failed request.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, code, message string, details interface{}) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: message, Details: details}
}

// errorFor maps domain errors onto HTTP statuses.
func errorFor(err error) *APIError {
	var (
		missing *apperrors.MissingFieldsError
		format  *apperrors.FormatError
		verr    *apperrors.ValidationError
		serr    *apperrors.StoreError
	)
	switch {
	case apperrors.As(err, &missing):
		return newAPIError(http.StatusUnprocessableEntity, "MISSING_FIELDS", err.Error(), map[string][]string{"missing": missing.Fields})
	case apperrors.Is(err, apperrors.ErrFileTooLarge):
		return newAPIError(http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error(), nil)
	case apperrors.As(err, &format):
		return newAPIError(http.StatusBadRequest, "FORMAT_ERROR", format.Reason, map[string]string{"file": format.File})
	case apperrors.As(err, &verr):
		return newAPIError(http.StatusBadRequest, "VALIDATION_FAILED", verr.Message, map[string]string{"field": verr.Field})
	case apperrors.Is(err, apperrors.ErrNotFound):
		return newAPIError(http.StatusNotFound, "NOT_FOUND", "trade not found", nil)
	case apperrors.Is(err, apperrors.ErrInvalidTrade) && apperrors.As(err, &serr):
		return newAPIError(http.StatusBadRequest, "INVALID_TRADE", serr.Message, nil)
	}
	return newAPIError(http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := errorFor(err)
	logger := logging.FromContext(r.Context())
	if apiErr.StatusCode >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Int("status", apiErr.StatusCode).Msg("Request rejected")
	}
	_ = render.Render(w, r, apiErr)
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	_ = render.Render(w, r, newAPIError(http.StatusBadRequest, "INVALID_REQUEST", message, nil))
}
