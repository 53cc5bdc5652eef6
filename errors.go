package markly

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any API response with status 401. By the
	// time a caller observes it, the configured unauthorized hook has
	// already run.
	ErrUnauthorized = errors.New("markly: unauthorized")

	// ErrNoToken is returned by Login and Register when the server
	// answered 2xx but the response carried no token.
	ErrNoToken = errors.New("markly: no token received")
)

// APIError is a non-2xx response from the Markly API. Body holds the raw
// response body text; callers are responsible for interpreting it.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("markly: api error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("markly: api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401 APIError.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// ParseError is a 2xx response whose body could not be decoded into the
// expected shape. The malformed payload is never propagated to callers.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("markly: parse %s: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
