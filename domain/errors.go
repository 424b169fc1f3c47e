package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is the root of every missing-record error
var ErrNotFound = errors.New("not found")

// Dispatch errors
var (
	ErrInvalidAction  = errors.New("invalid action")
	ErrInvalidPayload = errors.New("invalid payload")
)

// Application errors
var (
	ErrApplicationNotFound   = fmt.Errorf("application %w", ErrNotFound)
	ErrApplicationNotPending = errors.New("application is not pending")
	ErrApplicationInvalid    = errors.New("application is missing required fields")
)

// Authentication errors
var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// Session errors
var (
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
	ErrSessionExpired  = errors.New("session has expired")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("insufficient role permissions")
)

// Restaurant and package errors
var (
	ErrRestaurantNotFound = fmt.Errorf("restaurant %w", ErrNotFound)
	ErrPackageNotFound    = fmt.Errorf("package %w", ErrNotFound)
	ErrPackageInvalid     = errors.New("package is missing required fields")
	ErrQuantityOutOfRange = errors.New("remaining quantity out of range")
	ErrPackageUnavailable = errors.New("package not available in requested quantity")
	ErrPackageChanged     = errors.New("package stock changed during update")
)

// Order errors
var (
	ErrOrderNotFound      = fmt.Errorf("order %w", ErrNotFound)
	ErrOrderInvalid       = errors.New("order is missing required fields")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrUnknownOrderStatus = errors.New("unknown order status")
)

// Transport errors
var (
	ErrTimeout             = errors.New("request timed out")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// ErrorKind classifies errors for the wire layer
type ErrorKind string

const (
	KindInvalidAction       ErrorKind = "InvalidAction"
	KindNotFound            ErrorKind = "NotFound"
	KindInvalidCredentials  ErrorKind = "InvalidCredentials"
	KindInvalidTransition   ErrorKind = "InvalidTransition"
	KindTimeout             ErrorKind = "Timeout"
	KindUpstreamUnavailable ErrorKind = "UpstreamUnavailable"
	KindValidation          ErrorKind = "Validation"
	KindConflict            ErrorKind = "Conflict"
	KindUnauthorized        ErrorKind = "Unauthorized"
	KindInternal            ErrorKind = "Internal"
)

// KindOf maps err onto the closed set of error kinds
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidAction):
		return KindInvalidAction
	case errors.Is(err, ErrSessionNotFound):
		return KindUnauthorized
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTooManyAttempts), errors.Is(err, ErrUserInactive):
		return KindInvalidCredentials
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden),
		errors.Is(err, ErrSessionExpired), errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenMalformed):
		return KindUnauthorized
	case errors.Is(err, ErrApplicationNotPending), errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrPackageUnavailable), errors.Is(err, ErrPackageChanged):
		return KindConflict
	case errors.Is(err, ErrInvalidPayload), errors.Is(err, ErrApplicationInvalid),
		errors.Is(err, ErrPackageInvalid), errors.Is(err, ErrQuantityOutOfRange),
		errors.Is(err, ErrOrderInvalid), errors.Is(err, ErrUnknownOrderStatus):
		return KindValidation
	}
	return KindInternal
}
