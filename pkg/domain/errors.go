package domain

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrBadRequest          = errors.New("bad request")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrConfiguration       = errors.New("configuration error")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrValue               = errors.New("invalid value")
)

func NewNotFoundError(entityType string, id string) error {
	return errors.Mark(errors.Newf("%s '%s' not found", entityType, id), ErrNotFound)
}

func NotFoundf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

func NewBadRequestError(msg string) error {
	return errors.Mark(errors.New(msg), ErrBadRequest)
}

func BadRequestf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrBadRequest)
}

// NewServiceUnavailableError keeps cause for logs while Error() only reports msg.
func NewServiceUnavailableError(msg string, cause error) error {
	err := errors.New(msg)
	if cause != nil {
		err = errors.WithSecondaryError(err, cause)
	}
	return errors.Mark(err, ErrServiceUnavailable)
}

func NewConfigurationError(msg string) error {
	return errors.Mark(errors.New(msg), ErrConfiguration)
}

func ConfigurationErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrConfiguration)
}

func ValueErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrValue)
}

func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Kind == StoreNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// RemoteStatusError carries a non-2xx answer from a downstream tool server.
type RemoteStatusError struct {
	StatusCode int
	Body       string
}

func (e *RemoteStatusError) Error() string {
	return fmt.Sprintf("Error executing tool: %s", e.Body)
}

// HTTPStatus maps the error taxonomy to a response status.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var remote *RemoteStatusError
	if errors.As(err, &remote) {
		return remote.StatusCode
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		switch storeErr.Kind {
		case StoreNotFound:
			return http.StatusNotFound
		case StoreConstraintViolation:
			return http.StatusConflict
		default:
			return http.StatusInternalServerError
		}
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrValue):
		return http.StatusBadRequest
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to put in an error response body.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteStatusError
	if errors.As(err, &remote) {
		return remote.Error()
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		switch storeErr.Kind {
		case StoreNotFound:
			return "resource not found"
		case StoreConstraintViolation:
			return "resource already exists or violates a constraint"
		default:
			return "database operation failed"
		}
	}
	for _, kind := range []error{
		ErrNotFound, ErrBadRequest, ErrValue, ErrServiceUnavailable, ErrConstraintViolation, ErrConfiguration,
	} {
		if errors.Is(err, kind) {
			return err.Error()
		}
	}
	return "internal server error"
}
