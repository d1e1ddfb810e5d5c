package api

import (
	"errors"
	"fmt"
	"net/http"
)

// CodeNetworkError marks failures where no response was received at all.
const CodeNetworkError = "NETWORK_ERROR"

// Error is the uniform shape every failed request is normalized to.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s (code=%s status=%d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("api: %s (status=%d)", e.Message, e.Status)
}

// errorEnvelope is the error body the Zona Azul API returns on failure.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

func IsNetworkError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == CodeNetworkError
}
