// Package apiutil holds the pieces shared by every API handler: the error
// body, error mapping and request value types.
package apiutil

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/apperr"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	status  int
	Message string   `json:"error" doc:"Human readable error"`
	Details []string `json:"details,omitempty" doc:"Additional problems, e.g. missing fields"`
}

func (e *ErrorBody) Error() string {
	return e.Message
}

func (e *ErrorBody) GetStatus() int {
	return e.status
}

// NewError builds an ErrorBody. Schema validation failures are reported as
// 400 like every other validation error.
func NewError(status int, message string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}
	body := &ErrorBody{status: status, Message: message}
	for _, err := range errs {
		if err == nil {
			continue
		}
		body.Details = append(body.Details, err.Error())
	}
	return body
}

func init() {
	huma.NewError = NewError
}

// From maps a service error to its HTTP error. message is used for errors
// that carry no caller-facing text of their own.
func From(err error, message string) huma.StatusError {
	var se huma.StatusError
	if errors.As(err, &se) {
		return se
	}

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return &ErrorBody{status: http.StatusInternalServerError, Message: message}
	}

	status := http.StatusInternalServerError
	switch ae.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	default:
		return &ErrorBody{status: status, Message: message}
	}
	return &ErrorBody{status: status, Message: ae.Message, Details: ae.Details}
}

// Fail logs err under the handler's name and returns its HTTP error.
// Only server errors are logged at error level.
func Fail(log logrus.FieldLogger, name string, err error, message string) huma.StatusError {
	se := From(err, message)
	entry := log.WithError(err).WithField("status", se.GetStatus())
	if se.GetStatus() >= http.StatusInternalServerError {
		entry.Errorf("Handler.%s.Error", name)
	} else {
		entry.Infof("Handler.%s.Rejected", name)
	}
	return se
}
