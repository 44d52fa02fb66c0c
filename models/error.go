package models

import (
	"errors"
	"net/http"
)

// ErrMsg is an error that knows which HTTP status it maps to.
type ErrMsg struct {
	Err  error
	Code int
}

func (e ErrMsg) Error() string {
	return e.Err.Error()
}

func (e ErrMsg) Unwrap() error {
	return e.Err
}

func AuthenticationError(msg string) error {
	return ErrMsg{Err: errors.New(msg), Code: http.StatusUnauthorized}
}

func BadRequestError(msg string) error {
	return ErrMsg{Err: errors.New(msg), Code: http.StatusBadRequest}
}

func NotFoundError(msg string) error {
	return ErrMsg{Err: errors.New(msg), Code: http.StatusNotFound}
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var e ErrMsg
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}
