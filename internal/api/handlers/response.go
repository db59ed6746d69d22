package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/zatekoja/medicalnetwork/pkg/errors"
)

const (
	// DefaultBodyLimit bounds JSON request bodies
	DefaultBodyLimit int64 = 64 << 10
	// AnalyzeBodyLimit bounds POST /api/analyze, which carries base64 files
	AnalyzeBodyLimit int64 = 25 << 20
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the error type to a status code. Internal
// errors are logged and answered with a generic message.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)

	var appErr *apperrors.AppError
	if status == http.StatusInternalServerError || !errors.As(err, &appErr) {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if status >= 500 {
		log.Warn().Err(err).Str("path", r.URL.Path).Str("type", string(appErr.Type)).Msg("Request failed")
	}
	respondWithJSON(w, status, map[string]string{
		"error": appErr.Message,
		"type":  string(appErr.Type),
	})
}

func statusForError(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeUnavailable, apperrors.ErrorTypeSourceUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSONBody reads at most limit bytes of JSON into dst
func decodeJSONBody(w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.NewValidationError("request body too large")
		case errors.Is(err, io.EOF):
			return apperrors.NewValidationError("request body is required")
		default:
			return apperrors.NewValidationError("invalid request body")
		}
	}
	return nil
}
