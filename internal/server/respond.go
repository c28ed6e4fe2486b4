package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	swx "github.com/solweather/swxgate/internal"
)

// apiError is the structured failure body: the consumer gets a flag and a
// human-readable message, never a stack trace.
type apiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func errorResponse(msg string) apiError {
	return apiError{Success: false, Error: msg}
}

// errorStatus maps domain errors to HTTP status codes. Upstream failures of
// either flavor surface as 502: from the consumer's perspective the gateway
// could not obtain the data from the origin.
func errorStatus(err error) int {
	var ue *swx.UpstreamError
	var re *swx.RetrievalError
	switch {
	case errors.Is(err, swx.ErrUnknownProduct):
		return http.StatusNotFound
	case errors.Is(err, swx.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, swx.ErrBadRequest):
		return http.StatusBadRequest
	case errors.As(err, &ue), errors.As(err, &re):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// jsonCT is a pre-allocated header value slice. Direct map assignment
// (w.Header()["Content-Type"] = jsonCT) avoids the []string{v} alloc
// that Header.Set creates on every call. Saves 1 alloc/req.
var jsonCT = []string{"application/json"}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header()["Content-Type"] = jsonCT
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

var markdownCT = []string{"text/markdown; charset=utf-8"}

func writeMarkdown(w http.ResponseWriter, status int, body string) {
	w.Header()["Content-Type"] = markdownCT
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
