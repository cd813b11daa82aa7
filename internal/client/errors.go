package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid request")
)

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Type    string
	Message string
	Fields  []FieldError
}

// Error is the text a person should see: the field messages when present,
// otherwise the server message.
func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		msgs := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			if f.Message != "" {
				msgs = append(msgs, f.Message)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return strings.ToLower(http.StatusText(e.Status))
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrInvalid:
		return e.Status == http.StatusBadRequest
	default:
		return false
	}
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Error struct {
			Type    string       `json:"type"`
			Message string       `json:"message"`
			Errors  []FieldError `json:"errors"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Type = payload.Error.Type
		apiErr.Message = payload.Error.Message
		apiErr.Fields = payload.Error.Errors
	}
	return apiErr
}
