package thimble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thimble-di/thimble/internal/container"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeUnboundKey
	ErrCodeConflict
	ErrCodeCyclicDependency
	ErrCodeScopeOrder
	ErrCodeAlreadyClosed
	ErrCodeScopeClosed
	ErrCodeProviderFailure
	ErrCodeResolutionFailed
	ErrCodeReleaseFailed
	ErrCodeRegistrySealed
	ErrCodeValidationFailed
	ErrCodeDecoratorFailed
	ErrCodeModuleApplyFailed
	ErrCodeHealthCheckFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:           "UNKNOWN",
	ErrCodeUnboundKey:        "UNBOUND_KEY",
	ErrCodeConflict:          "CONFLICT",
	ErrCodeCyclicDependency:  "CYCLIC_DEPENDENCY",
	ErrCodeScopeOrder:        "SCOPE_ORDER",
	ErrCodeAlreadyClosed:     "ALREADY_CLOSED",
	ErrCodeScopeClosed:       "SCOPE_CLOSED",
	ErrCodeProviderFailure:   "PROVIDER_FAILURE",
	ErrCodeResolutionFailed:  "RESOLUTION_FAILED",
	ErrCodeReleaseFailed:     "RELEASE_FAILED",
	ErrCodeRegistrySealed:    "REGISTRY_SEALED",
	ErrCodeValidationFailed:  "VALIDATION_FAILED",
	ErrCodeDecoratorFailed:   "DECORATOR_FAILED",
	ErrCodeModuleApplyFailed: "MODULE_APPLY_FAILED",
	ErrCodeHealthCheckFailed: "HEALTH_CHECK_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the failure type every public operation returns. Stack carries
// the dependency chain for cycle errors.
type Error struct {
	Code    ErrorCode
	Message string
	Key     string
	Cause   error
	Stack   []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Key != "" {
		b.WriteString(fmt.Sprintf(" key=%q:", e.Key))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

func (e *Error) WithStack(stack []string) *Error {
	e.Stack = stack
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// wrapErr converts an engine error into a typed *Error, passing through
// errors that are already typed.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return fromEngine(err)
}

func fromEngine(err error) *Error {
	var (
		cyc     *container.CycleError
		unbound *container.UnboundError
		prov    *container.ProviderError
	)

	switch {
	case errors.As(err, &cyc):
		return newError(ErrCodeCyclicDependency, "circular dependency", err).
			WithStack(cyc.Chain)
	case errors.As(err, &unbound):
		return newError(ErrCodeUnboundKey, "no binding found", err).
			WithKey(unbound.Key)
	case errors.As(err, &prov):
		return newError(ErrCodeProviderFailure, "provider failed during construction", err).
			WithKey(prov.Key)
	case errors.Is(err, container.ErrConflict):
		return newError(ErrCodeConflict, "duplicate binding", err)
	case errors.Is(err, container.ErrAlreadyClosed):
		return newError(ErrCodeAlreadyClosed, "scope already closed", err)
	case errors.Is(err, container.ErrScopeOrder):
		return newError(ErrCodeScopeOrder, "scope closed out of nesting order", err)
	case errors.Is(err, container.ErrScopeClosed):
		return newError(ErrCodeScopeClosed, "scope is closed", err)
	case errors.Is(err, container.ErrRelease):
		return newError(ErrCodeReleaseFailed, "failed to release instances", err)
	case errors.Is(err, container.ErrSealed):
		return newError(ErrCodeRegistrySealed, "registry is sealed", err)
	case errors.Is(err, container.ErrUnboundKey):
		return newError(ErrCodeUnboundKey, "no binding found", err)
	default:
		return newError(ErrCodeUnknown, "container operation failed", err)
	}
}

func IsUnboundKey(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeUnboundKey
}

func IsConflict(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConflict
}

func IsCyclicDependency(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCyclicDependency
}

func IsScopeOrder(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeScopeOrder
}

func IsAlreadyClosed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeAlreadyClosed
}

func IsScopeClosed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeScopeClosed
}

func IsProviderFailure(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeProviderFailure
}

func IsResolutionFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeResolutionFailed
}

func IsReleaseFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeReleaseFailed
}

func IsRegistrySealed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeRegistrySealed
}
