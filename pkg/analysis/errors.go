// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package analysis

import (
	"errors"
	"fmt"
)

// ErrorKind tells apart the ways the evaluator can fail to produce a result.
type ErrorKind int

const (
	// Unreachable covers dial, DNS and transport failures, and cancelled requests.
	Unreachable ErrorKind = iota
	// Timeout is reported when the client side deadline elapsed.
	Timeout
	// BadStatus is a non 2xx response.
	BadStatus
	// Malformed is a response body that could not be decoded or failed validation.
	Malformed
)

func (k ErrorKind) String() string {
	switch k {
	case Unreachable:
		return "unreachable"
	case Timeout:
		return "timeout"
	case BadStatus:
		return "bad status"
	case Malformed:
		return "malformed response"
	}
	return "unknown"
}

// ConnectivityError is the only error returned by Client.Analyze.
type ConnectivityError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *ConnectivityError) Error() string {
	msg := fmt.Sprintf("analysis backend %s", e.Kind)
	if e.Kind == BadStatus {
		msg = fmt.Sprintf("%s [%d]", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsConnectivity reports whether err is, or wraps, a ConnectivityError.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}
