// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"fmt"

	"github.com/rtforge/appconfc/internal/cfg"
)

type Exception interface {
	error
	Code() string
	Message() string
	Location() Location
}

type Location struct {
	cfg.Location
	URI string
}

type exc struct {
	code     string
	message  string
	location Location
}

func (e *exc) Error() string {
	return fmt.Sprintf("%s:%d:%d -- %s: %s", e.location.URI, e.location.Line, e.location.Column, e.code, e.message)
}

func (e *exc) Code() string {
	return e.code
}

func (e *exc) Message() string {
	return e.message
}

func (e *exc) Location() Location {
	return e.location
}

type excUnwrap struct {
	Exception
	cause error
}

func (e *excUnwrap) Unwrap() error {
	return e.cause
}

func New(location Location, code string, message string) Exception {
	return &exc{
		location: location,
		message:  message,
		code:     code,
	}
}

func Wrap(location Location, code string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: New(location, code, e.Message()),
			cause:     e,
		}
	}
	return &excUnwrap{
		cause:     err,
		Exception: New(location, code, err.Error()),
	}
}

func WrapUnknown(location Location, err error) Exception {
	return Wrap(location, CodeUnknownFatal, err)
}

// Note prefixes the message of an error with a contextual description of
// the construct that was being processed when it failed. The code and
// location of the innermost exception are preserved, so a chain of notes
// reads outermost-first while still pointing at the original failure:
//
//	parsing `tasks`: parsing task `t1`: expected boolean, found `1`
func Note(note string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: New(e.Location(), e.Code(), note+": "+e.Message()),
			cause:     e,
		}
	}
	return &excUnwrap{
		Exception: New(Location{}, CodeUnknownFatal, note+": "+err.Error()),
		cause:     err,
	}
}
