package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound     = errors.New("gateway: resource not found")
	ErrBodyTooLarge = errors.New("gateway: response body too large")
)

// TransportError means no response reached us.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway: %s: no response: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response. Message holds the server supplied text,
// if any.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway: %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway: %s: status %d", e.Op, e.StatusCode)
}

func (e *ServerError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// UserMessage picks what to show an operator for err: the server message when
// the backend sent one, fallback otherwise.
func UserMessage(err error, fallback string) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	return fallback
}

// errorMessage extracts the message from an error body. The backend uses
// "error", "message" or "mensagem", and sometimes a bare string.
func errorMessage(body []byte) string {
	var fields struct {
		Error    string `json:"error"`
		Message  string `json:"message"`
		Mensagem string `json:"mensagem"`
	}
	if err := json.Unmarshal(body, &fields); err == nil {
		switch {
		case fields.Error != "":
			return fields.Error
		case fields.Message != "":
			return fields.Message
		case fields.Mensagem != "":
			return fields.Mensagem
		}
		return ""
	}

	var text string
	if err := json.Unmarshal(body, &text); err == nil {
		return text
	}
	return strings.TrimSpace(string(body))
}
