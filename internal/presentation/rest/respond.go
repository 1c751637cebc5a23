package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bibbank/safepay/internal/application/usecase"
	"github.com/bibbank/safepay/internal/domain/port"
	"github.com/bibbank/safepay/internal/domain/valueobject"
)

// ErrorBody is the envelope every failed request returns.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// writeUseCaseError maps use case errors onto HTTP statuses. Only validation
// messages reach the client verbatim.
func writeUseCaseError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, valueobject.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, "invalid_input", err.Error())
	case errors.Is(err, port.ErrPredictionNotFound):
		writeError(w, http.StatusNotFound, "not_found", "prediction not found")
	case errors.Is(err, port.ErrModelUnavailable):
		writeError(w, http.StatusServiceUnavailable, "model_unavailable", port.ErrModelUnavailable.Error())
	case errors.Is(err, usecase.ErrInferenceFailed):
		logger.Error("inference failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "inference_failed", "an error occurred while making the prediction")
	default:
		logger.Error("request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
