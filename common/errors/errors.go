/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ErrorType string

const (
	ErrorTypeNotFound    ErrorType = "NotFound"
	ErrorTypeServerError ErrorType = "ServerError"
	ErrorTypeDBError     ErrorType = "DBError"
	ErrorTypeBadRequest  ErrorType = "BadRequest"
	ErrorTypeUnknown     ErrorType = "Unknown"
	ErrorTypeConfig      ErrorType = "ConfigurationError"
	ErrorTypeUnavailable ErrorType = "ServiceUnavailable"

	// Prediction job kinds
	ErrorTypeTransport         ErrorType = "TransportError"
	ErrorTypeWorkerJobFailed   ErrorType = "WorkerJobFailed"
	ErrorTypeWorkerJobTimedOut ErrorType = "WorkerJobTimedOut"
	ErrorTypeModelUnavailable  ErrorType = "ModelUnavailable"

	// Observations that only live inside a retry loop
	ErrorTypeJobNotDone    ErrorType = "JobNotDone"
	ErrorTypeModelsPending ErrorType = "ModelsPending"
)

type CommonBridgeError struct {
	errorType ErrorType
	message   string
	cause     error
}

type BridgeError interface {
	ErrorType() ErrorType
	Message() string
	IsErrorType(errorType ErrorType) bool
	Error() string
	Unwrap() error
	ConvertToHTTPError() *echo.HTTPError
}

func (h CommonBridgeError) ErrorType() ErrorType {
	return h.errorType
}

func (h CommonBridgeError) Message() string {
	return h.message
}

func (h CommonBridgeError) Error() string {
	if h.cause != nil {
		return h.message + ": " + h.cause.Error()
	}
	return h.message
}

func (h CommonBridgeError) Unwrap() error {
	return h.cause
}

func (h CommonBridgeError) IsErrorType(errorType ErrorType) bool {
	return errorType == h.errorType
}

func (h CommonBridgeError) ConvertToHTTPError() *echo.HTTPError {
	return echo.NewHTTPError(errorTypeToCode(h.ErrorType()), h.Message())
}

func NewCommonBridgeError(errorType ErrorType, message string) CommonBridgeError {
	return CommonBridgeError{errorType: errorType, message: message}
}

// WrapBridgeError keeps cause reachable through errors.Is / errors.As.
func WrapBridgeError(errorType ErrorType, message string, cause error) CommonBridgeError {
	return CommonBridgeError{errorType: errorType, message: message, cause: cause}
}

// ErrorTypeOf returns the kind of the first BridgeError in err's chain, ErrorTypeUnknown otherwise.
func ErrorTypeOf(err error) ErrorType {
	var bridgeErr BridgeError
	if errors.As(err, &bridgeErr) {
		return bridgeErr.ErrorType()
	}
	return ErrorTypeUnknown
}

func IsErrorType(err error, errorType ErrorType) bool {
	return err != nil && ErrorTypeOf(err) == errorType
}

// IsRetryable is the predicate every bounded retry loop uses.
func IsRetryable(err error) bool {
	switch ErrorTypeOf(err) {
	case ErrorTypeTransport, ErrorTypeModelUnavailable, ErrorTypeJobNotDone, ErrorTypeModelsPending:
		return true
	default:
		return false
	}
}

func errorTypeToCode(status ErrorType) int {
	switch status {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeBadRequest, ErrorTypeConfig:
		return http.StatusBadRequest
	case ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorTypeTransport, ErrorTypeModelUnavailable:
		return http.StatusBadGateway
	case ErrorTypeWorkerJobTimedOut:
		return http.StatusGatewayTimeout
	case ErrorTypeServerError, ErrorTypeDBError, ErrorTypeUnknown, ErrorTypeWorkerJobFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
