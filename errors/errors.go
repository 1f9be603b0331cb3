package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Ledger wide root errors are declared in this package. Programs that need
// their own failure kinds should use RegisterCustom instead. This function
// ensures that no error code is used twice. Attempt to reuse an error code
// results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	return register("", code, description)
}

// RegisterCustom declares a program owned error. Custom codes are scoped by
// the namespace, usually the name of the program, so two programs may both
// use code 0 for their first failure kind.
//
// Use this function only during a program startup phase.
func RegisterCustom(namespace string, code uint32, description string) *Error {
	if namespace == "" {
		panic("custom error namespace must not be empty")
	}
	return register(namespace, code, description)
}

func register(namespace string, code uint32, description string) *Error {
	key := codeKey{namespace: namespace, code: code}
	if e, ok := usedCodes[key]; ok {
		if e == nil {
			panic(fmt.Sprintf("error code %d is reserved", code))
		}
		if namespace == "" {
			panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
		}
		panic(fmt.Sprintf("error with code %s/%d is already registered: %q", namespace, code, e.desc))
	}
	err := &Error{
		code:      code,
		desc:      description,
		namespace: namespace,
	}
	usedCodes[key] = err
	return err
}

// Lookup returns the root error registered under given namespace and code.
// Use an empty namespace for ledger wide errors.
func Lookup(namespace string, code uint32) (*Error, bool) {
	e, ok := usedCodes[codeKey{namespace: namespace, code: code}]
	return e, ok && e != nil
}

type codeKey struct {
	namespace string
	code      uint32
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No two
// error instances should share the same error code within a namespace.
var usedCodes = map[codeKey]*Error{
	// Code 0 means success, code 1 is restricted for errors that do not
	// carry a code and CustomCode marks program errors. None of them can be
	// registered as a ledger error.
	{code: SuccessCode}:  nil,
	{code: internalCode}: nil,
	{code: CustomCode}:   nil,
}

// Error represents a root error.
//
// Each error instance created during the runtime should wrap one of the
// declared root errors. This allows error tests and returning all errors to
// the client in a safe manner.
type Error struct {
	code      uint32
	desc      string
	namespace string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the numeric code of this error. Custom codes are only unique
// within their namespace.
func (e Error) Code() uint32 {
	return e.code
}

// Namespace returns the owner of a custom error or an empty string for
// ledger wide errors.
func (e Error) Namespace() string {
	return e.namespace
}

// IsCustom returns true if this error was declared by a program.
func (e Error) IsCustom() bool {
	return e.namespace != ""
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If the wrapped error does not provide a root error (ie. stdlib errors),
// it will be labeled as internal error.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet, attach
	// one. This should be done only once per error at the lowest frame
	// possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional funtionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call this
// function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}
