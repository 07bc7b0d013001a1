package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/salman-113/storefront/pkg/errors"
)

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. The record store returns plain (often
// empty) bodies rather than structured error envelopes, so mapping is driven
// by the status code alone.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, resource string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", resource, resp.StatusCode, err)
	}
	body := strings.TrimSpace(string(bodyBytes))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(resource, requestTarget(resp))
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(fmt.Sprintf("%s rejected the request: %s", resource, body))
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.NotAuthenticated(fmt.Sprintf("%s requires authentication", resource))
	case resp.StatusCode == http.StatusConflict:
		return apperrors.AlreadyPresent(fmt.Sprintf("%s: %s", resource, body))
	case resp.StatusCode >= 500:
		return apperrors.Server(resp.StatusCode, body)
	default:
		return fmt.Errorf("%s returned status %d: %s", resource, resp.StatusCode, body)
	}
}

// requestTarget extracts the request path for error messages, falling back to
// the resource-less placeholder when the response carries no request.
func requestTarget(resp *http.Response) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.Path
	}
	return "unknown"
}
