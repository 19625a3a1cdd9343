package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// HTTPStatus maps a domain error to its response code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateReview), errors.Is(err, domain.ErrDuplicateFavorite):
		return http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAuthenticationRequired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError hides the detail of unexpected errors from clients.
func respondWithError(w http.ResponseWriter, err error, log *logger.Logger) {
	code := HTTPStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
		msg = "internal server error"
	}
	respondWithJSON(w, code, errorResponse{Error: msg})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseIntQueryParam(r *http.Request, key string, defaultValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return v
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}
