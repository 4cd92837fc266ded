// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

// Package mediaerr defines the error taxonomy for the media upload client.
// Every pipeline stage returns one of these errors instead of letting raw
// transport or decoding failures propagate past its boundary.
package mediaerr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Code is an enumeration of client error classes. The class determines the
// recovery guidance shown to the user, so codes that look similar on the wire
// (local size rejection vs. server 413, network failure vs. timeout) stay
// distinct.
type Code int

const (
	ErrNone Code = iota

	// ErrValidation: rejected purely from local information (size ceiling,
	// disallowed content type) before any network call.
	ErrValidation

	// ErrAuth: HTTP 401 on negotiation or transfer.
	ErrAuth

	// ErrPayloadTooLarge: HTTP 413. The server ceiling may differ from the
	// local validation ceiling, so this is not ErrValidation.
	ErrPayloadTooLarge

	// ErrNetwork: connectivity failure or unexpected HTTP status.
	ErrNetwork

	// ErrTimeout: the attempt budget elapsed. Retrying as-is rarely helps.
	ErrTimeout

	// ErrMalformedResponse: missing body or missing required identifier in an
	// otherwise successful response.
	ErrMalformedResponse

	// ErrPrecondition: invalid argument detected before any network call.
	ErrPrecondition
)

func (c Code) String() string {
	switch c {
	case ErrValidation:
		return "validation"
	case ErrAuth:
		return "authentication"
	case ErrPayloadTooLarge:
		return "payload_too_large"
	case ErrNetwork:
		return "network"
	case ErrTimeout:
		return "timeout"
	case ErrMalformedResponse:
		return "malformed_response"
	case ErrPrecondition:
		return "precondition"
	}
	return "none"
}

// Error carries the class, a user-facing message, the offending field for
// validation/precondition failures, and the wrapped cause.
type Error struct {
	Code    Code
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Field creates a precondition or validation error naming the invalid field.
func Field(code Code, field, message string) *Error {
	return &Error{Code: code, Field: field, Message: message}
}

// Wrap attaches a code and message to a cause.
func Wrap(code Code, err error, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the Code from err, or ErrNone if err is not a taxonomy
// error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrNone
}

// Canonical user-facing messages.
const (
	MsgLoginRequired   = "please log in"
	MsgServerTooLarge  = "file too large for server"
	MsgInvalidResponse = "invalid response from server"
	MsgTimeout         = "upload timed out"
)

// FromStatus classifies a non-2xx HTTP status. 401 and 413 get their own
// classes; everything else is a network-level failure.
func FromStatus(status int) *Error {
	switch status {
	case http.StatusUnauthorized:
		return New(ErrAuth, MsgLoginRequired)
	case http.StatusRequestEntityTooLarge:
		return New(ErrPayloadTooLarge, MsgServerTooLarge)
	}
	return Newf(ErrNetwork, "unexpected status %d", status)
}

// Classify distinguishes timeout failures from other transport failures.
// Context deadline expiry and net.Error timeouts are ErrTimeout; everything
// else is ErrNetwork.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(ErrTimeout, err, MsgTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Wrap(ErrTimeout, err, MsgTimeout)
	}
	return Wrap(ErrNetwork, err, "network error")
}
