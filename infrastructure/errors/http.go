// Package errors parses error responses from HTTP APIs and wraps errors with
// context.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MinErrorStatusCode is the lowest status code treated as an error.
const MinErrorStatusCode = 400

// HTTPError is a non-2xx API response.
type HTTPError struct {
	StatusCode int
	Status     string
	// Type and Reason come from an Elasticsearch error body when present.
	Type    string
	Reason  string
	Body    string
	Message string
}

func (e *HTTPError) Error() string {
	switch {
	case e.Type != "" && e.Reason != "":
		return fmt.Sprintf("HTTP error (%d): %s: %s", e.StatusCode, e.Type, e.Reason)
	case e.Message != "":
		return fmt.Sprintf("HTTP error (%d): %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("HTTP error: %s", e.Status)
	}
}

type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type errorCause struct {
	Type      string       `json:"type"`
	Reason    string       `json:"reason"`
	RootCause []errorCause `json:"root_cause"`
}

// ParseResponse builds an HTTPError from a status and body. It returns nil
// for status codes below MinErrorStatusCode. Both the structured
// {"error":{"type","reason"}} shape and a plain {"error":"..."} string are
// understood; anything else is kept verbatim as the message.
func ParseResponse(statusCode int, body io.Reader) error {
	if statusCode < MinErrorStatusCode {
		return nil
	}

	httpErr := &HTTPError{
		StatusCode: statusCode,
		Status:     fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
	}

	data, err := io.ReadAll(body)
	if err != nil {
		httpErr.Message = fmt.Sprintf("failed to read error response body: %v", err)
		return httpErr
	}
	httpErr.Body = string(data)
	httpErr.Message = httpErr.Body

	var parsed errorBody
	if json.Unmarshal(data, &parsed) != nil {
		return httpErr
	}

	var cause errorCause
	var text string
	switch {
	case json.Unmarshal(parsed.Error, &cause) == nil && cause.Type != "":
		httpErr.Type = cause.Type
		httpErr.Reason = cause.Reason
		if httpErr.Reason == "" && len(cause.RootCause) > 0 {
			httpErr.Reason = cause.RootCause[0].Reason
		}
	case json.Unmarshal(parsed.Error, &text) == nil && text != "":
		httpErr.Message = text
	case parsed.Message != "":
		httpErr.Message = parsed.Message
	}
	return httpErr
}

// ParseHTTPError is ParseResponse for an *http.Response.
func ParseHTTPError(resp *http.Response) error {
	return ParseResponse(resp.StatusCode, resp.Body)
}

// StatusCode extracts the status code from an HTTPError anywhere in err's chain.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}
