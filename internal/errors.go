package swx

import (
	"errors"
	"fmt"
)

// Sentinel errors for the gateway domain.
var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
)

// UpstreamError reports a non-2xx status from the upstream feed. Transport
// succeeded; the server refused or failed the request.
type UpstreamError struct {
	ProductID  string
	StatusCode int
	Status     string // e.g. "503 Service Unavailable"
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream returned HTTP %s", e.ProductID, e.Status)
}

// RetrievalError reports a transport-level or payload-decoding failure.
type RetrievalError struct {
	ProductID string
	Cause     error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: retrieval failed: %v", e.ProductID, e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *RetrievalError) Unwrap() error { return e.Cause }
