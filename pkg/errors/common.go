// Golang port of Overleaf
// Copyright (C) 2024 Jakob Ackermann <das7pad@outlook.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package errors

import (
	"errors"
	"io/fs"
	"strings"
)

type UserFacingError interface {
	IsUserFacing()
}

type Causer interface {
	Cause() error
}

func IsUserFacing(err error) bool {
	var u UserFacingError
	return errors.As(err, &u)
}

type MergedError struct {
	errors []error
}

func (m *MergedError) Error() string {
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}
	var b strings.Builder
	b.WriteString("merged: ")
	for i, err := range m.errors {
		if i != 0 {
			b.WriteString(" + ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

func (m *MergedError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

func (m *MergedError) Errors() []error {
	return m.errors
}

func (m *MergedError) Unwrap() []error {
	return m.errors
}

func (m *MergedError) Finalize() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

func Merge(errors ...error) error {
	m := MergedError{}
	for _, err := range errors {
		m.Add(err)
	}
	return m.Finalize()
}

type TaggedError struct {
	msg   string
	cause error
}

func (t *TaggedError) Error() string {
	return t.msg + ": " + t.cause.Error()
}

func (t *TaggedError) Cause() error {
	return t.cause
}

func (t *TaggedError) Unwrap() error {
	return t.cause
}

func Tag(err error, msg string) *TaggedError {
	return &TaggedError{msg: msg, cause: err}
}

func GetCause(err error) error {
	if causer, ok := err.(Causer); ok {
		return GetCause(causer.Cause())
	}
	return err
}

type ValidationError struct {
	Msg string
}

func (v *ValidationError) Error() string {
	return v.Msg
}

func (v *ValidationError) IsUserFacing() {}

func IsValidationError(err error) bool {
	_, ok := GetCause(err).(*ValidationError)
	return ok
}

type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Path == "" {
		return "not found"
	}
	return "not found: " + e.Path
}

func (e *NotFoundError) IsUserFacing() {}

func (e *NotFoundError) Is(target error) bool {
	if target == fs.ErrNotExist {
		return true
	}
	_, ok := target.(*NotFoundError)
	return ok
}

func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// New is a re-export of the built-in errors.New function.
var New = errors.New

// Is is a re-export of the built-in errors.Is function.
var Is = errors.Is

// As is a re-export of the built-in errors.As function.
var As = errors.As
