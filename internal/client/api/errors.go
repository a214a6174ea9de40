package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error ответ сервера с кодом вне 2xx
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// TransportError означает, что запрос не дошел до сервера или ответ не получен
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport failure: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport сообщает, что ошибка вызвана сетью, а не отказом сервера
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsNotFound сообщает, что сервер ответил 404
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsConflict сообщает, что сервер ответил 409
func IsConflict(err error) bool {
	return statusOf(err) == http.StatusConflict
}

func statusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
