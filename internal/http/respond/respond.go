// Package respond writes JSON bodies and maps domain errors to HTTP statuses.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/backoffice/internal/directory"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
)

type errorResponse struct {
	Error  string               `json:"error"`
	Fields []invoice.FieldError `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Message writes a bare error message with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// Error maps err onto a status code and writes it. Storage failures are
// logged and their details withheld from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var verr *invoice.ValidationError
	if errors.As(err, &verr) {
		JSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: verr.Fields})
		return
	}

	switch {
	case errors.Is(err, invoice.ErrEmptyInvoice):
		Message(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, invoice.ErrDuplicateNumber), errors.Is(err, invoice.ErrNumberImmutable):
		Message(w, http.StatusConflict, err.Error())
	case errors.Is(err, invoice.ErrNotFound), errors.Is(err, directory.ErrNotFound):
		Message(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		slog.Error("request timed out", "method", r.Method, "path", r.URL.Path, "error", err)
		Message(w, http.StatusGatewayTimeout, "storage timed out")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Message(w, http.StatusInternalServerError, "internal error")
	}
}
