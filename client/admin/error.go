// The MIT License (MIT)
//
// Copyright (c) 2017-2020 Uber Technologies Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package admin

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AdminError the way core components need to react
// to it, independent of which wire error the transport actually returned.
type ErrorKind int

const (
	// ErrorKindTransient covers timeouts, leader-not-available and other
	// retriable broker conditions.
	ErrorKindTransient ErrorKind = iota
	// ErrorKindAuthDisabled means the broker's authorizer is not enabled,
	// so ACL operations are structurally unsupported rather than failing.
	ErrorKindAuthDisabled
	// ErrorKindAlreadyExists means a create raced a prior create (topic,
	// partition count, or ACL binding already present).
	ErrorKindAlreadyExists
	// ErrorKindFatal covers everything the connector cannot recover from
	// by retrying: bad configuration, permission denial, malformed request.
	ErrorKindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTransient:
		return "transient"
	case ErrorKindAuthDisabled:
		return "auth-disabled"
	case ErrorKindAlreadyExists:
		return "already-exists"
	default:
		return "fatal"
	}
}

// Error is the sum type every Client method returns its failures as, once
// classified at the transport boundary. Core components switch on Kind
// rather than inspecting sarama's error types directly.
type Error struct {
	Kind  ErrorKind
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("admin: %s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// IsTransient reports whether err is an *Error classified as retriable.
func IsTransient(err error) bool {
	var ae *Error
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Kind == ErrorKindTransient
}

// IsAuthDisabled reports whether err signals the broker's authorizer is off.
func IsAuthDisabled(err error) bool {
	var ae *Error
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Kind == ErrorKindAuthDisabled
}

// IsAlreadyExists reports whether err signals a harmless create race.
func IsAlreadyExists(err error) bool {
	var ae *Error
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Kind == ErrorKindAlreadyExists
}
