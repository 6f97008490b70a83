package router

import (
	"errors"

	"city-registry/internal/service"
	"city-registry/internal/transport/http/ez"
)

// svcErr translates service sentinels into action errors; anything unknown
// falls through as a plain 500.
func svcErr(err error) error {
	switch {
	case errors.Is(err, service.ErrMissingCredentials),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrWrongCredentials):
		return ez.Unauthorized(err.Error())
	case errors.Is(err, service.ErrNotFound):
		return ez.NotFound(err.Error())
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrRegistration):
		return ez.BadRequest(err.Error())
	default:
		return err
	}
}
