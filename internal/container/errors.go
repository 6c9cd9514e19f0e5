package container

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel failure kinds. The public package maps these onto typed error
// codes; everything the engine returns wraps exactly one of them.
var (
	ErrUnboundKey    = errors.New("no binding found for key")
	ErrConflict      = errors.New("key already bound in scope")
	ErrCycle         = errors.New("dependency cycle detected")
	ErrScopeClosed   = errors.New("scope is closed")
	ErrAlreadyClosed = errors.New("scope already closed")
	ErrScopeOrder    = errors.New("scope still has open child scopes")
	ErrProvider      = errors.New("provider failed")
	ErrRelease       = errors.New("release failed")
	ErrSealed        = errors.New("registry is sealed")
)

// CycleError reports a dependency cycle with the full closed chain, e.g.
// [A B A].
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Chain, " -> "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// UnboundError reports a missing binding and, when known, the binding that
// required it.
type UnboundError struct {
	Key        string
	RequiredBy string
}

func (e *UnboundError) Error() string {
	if e.RequiredBy != "" {
		return fmt.Sprintf("no binding found for key %s (required by %s)", e.Key, e.RequiredBy)
	}
	return fmt.Sprintf("no binding found for key %s", e.Key)
}

func (e *UnboundError) Is(target error) bool {
	return target == ErrUnboundKey
}

// ProviderError wraps a failure raised by a provider during construction.
type ProviderError struct {
	Key   string
	Cause error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider for %s failed: %v", e.Key, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}
