package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"etendering/internal/lib/api/response"
	"etendering/internal/lib/logger/sl"
	modelbids "etendering/internal/models/bids"
	"etendering/internal/models/section"
	"etendering/internal/service/bids"
	"etendering/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

var ErrInvalidInput = errors.New("invalid input")

func DecodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	return nil
}

func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a uuid", ErrInvalidInput, name)
	}
	return id, nil
}

// Fail uses notFound as the message when err is a storage.ErrNotFound.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, id any, err error, notFound string) {
	status, msg := classify(err, notFound)

	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}

	render.Status(r, status)
	render.JSON(w, r, response.Error(id, msg))
}

func classify(err error, notFound string) (int, string) {
	var validationErr *section.ValidationError
	var completionErr *modelbids.CompletionError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Reason
	case errors.As(err, &completionErr):
		return http.StatusBadRequest, completionErr.Error()
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, storage.ErrBadRequest):
		return http.StatusBadRequest, "Invalid request."
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, notFound
	case errors.Is(err, bids.ErrFinalized):
		return http.StatusConflict, "Response is already completed and cannot be changed."
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, "The resource was changed concurrently."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}
