package errors

import (
	"errors"
	"fmt"
	"reflect"
)

const (
	// SuccessCode is returned for a successful operation.
	SuccessCode uint32 = 0

	// All unclassified errors that do not wrap a root error are clubbed
	// under an internal error code and a generic message instead of
	// detailed error string.
	internalCode uint32 = 1
	internalLog         = "internal error"

	// CustomCode is returned by Code for every program declared error. The
	// program specific number is available through Info.
	CustomCode uint32 = 1000
)

// Root returns the registered root error that given error wraps or nil if
// there is none.
func Root(err error) *Error {
	for !errIsNil(err) {
		if e, ok := err.(*Error); ok {
			return e
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
	return nil
}

// Code returns the ledger wide numeric code given error is carrying. All
// program declared errors share CustomCode, use Info to read the namespace
// and the program specific code.
func Code(err error) uint32 {
	if errIsNil(err) {
		return SuccessCode
	}
	root := Root(err)
	if root == nil {
		return internalCode
	}
	if root.IsCustom() {
		return CustomCode
	}
	return root.code
}

// Info returns the error information as consumed by the caller of the ledger.
// Any error that does not wrap a root error is categorized as internal with
// code 1 and, unless running in debug mode, a generic message.
func Info(err error, debug bool) (namespace string, code uint32, log string) {
	if errIsNil(err) {
		return "", SuccessCode, ""
	}

	root := Root(err)
	if root == nil || ErrPanic.Is(err) {
		if debug {
			return "", internalCode, fmt.Sprintf("%+v", err)
		}
		return "", internalCode, internalLog
	}
	if debug {
		return root.namespace, root.code, fmt.Sprintf("%+v", err)
	}
	return root.namespace, root.code, err.Error()
}

// errIsNil returns true if value represented by the given error is nil.
//
// Most of the time a simple == check is enough. There is a very narrowed
// spectrum of cases (mostly in tests) where a more sophisticated check is
// required.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}

// Redact replace all errors that do not wrap a root error with a generic
// internal error instance. This function is supposed to hide implementation
// details errors and leave only those that the ledger originates.
//
// This is a no-operation function when running in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) {
		return errors.New(internalLog)
	}
	if Root(err) == nil {
		return errors.New(internalLog)
	}
	return err
}
