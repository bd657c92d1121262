package observability

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/baxromumarov/congress-tracker/internal/archive"
	"github.com/baxromumarov/congress-tracker/internal/httpx"
)

const (
	ErrorNetwork   = "network"
	ErrorNotFound  = "not_found"
	ErrorParsing   = "parsing"
	ErrorRateLimit = "rate_limit"
	ErrorStore     = "store"
	ErrorUnknown   = "unknown"
)

func ClassifyFetchError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	var fe *httpx.FetchError
	if errors.As(err, &fe) {
		switch {
		case fe.Status == http.StatusTooManyRequests:
			return ErrorRateLimit
		case fe.Status == http.StatusNotFound || fe.Status == http.StatusGone:
			return ErrorNotFound
		default:
			return ErrorNetwork
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorNetwork
	}
	return ErrorUnknown
}

// ClassifyError maps any pipeline error to one of the error kinds.
func ClassifyError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	if kind := ClassifyFetchError(err); kind != ErrorUnknown {
		return kind
	}
	if errors.Is(err, archive.ErrNotFound) {
		return ErrorNotFound
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "parse failed"),
		strings.Contains(msg, "decode failed"),
		strings.Contains(msg, "unmarshal"),
		strings.Contains(msg, "invalid character"):
		return ErrorParsing
	case strings.Contains(msg, "archive:"),
		strings.Contains(msg, "db"),
		strings.Contains(msg, "pq:"):
		return ErrorStore
	}
	return ErrorNetwork
}
