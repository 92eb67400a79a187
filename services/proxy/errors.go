// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package proxy

import (
	"github.com/pkg/errors"
)

var (
	ErrNoImplementation          = errors.New("proxy has no implementation")
	ErrUnreachableImplementation = errors.New("implementation has no code")
	ErrUnauthorized              = errors.New("caller is not the proxy admin")
	ErrInvalidAdmin              = errors.New("new admin is the zero address")
	ErrInvalidImplementation     = errors.New("new implementation is not valid")
	ErrInitializationFailed      = errors.New("implementation initialization failed")
	ErrReentrantUpgrade          = errors.New("proxy management called while an upgrade is running")
)

// causedError classifies as sentinel while keeping cause reachable through Unwrap
type causedError struct {
	sentinel error
	cause    error
}

func withCause(sentinel error, cause error) error {
	return &causedError{sentinel: sentinel, cause: cause}
}

func (e *causedError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

func (e *causedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *causedError) Unwrap() error {
	return e.cause
}
