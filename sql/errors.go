// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrInvalidChildrenNumber is returned when the WithChildren method of a
	// node or expression is called with an invalid number of arguments.
	ErrInvalidChildrenNumber = errors.NewKind("%T: invalid children number, got %d, expected %d")

	// ErrInvalidChildType is returned when the WithChildren method of a
	// node or expression is called with an invalid child type. This error is indicative of a bug.
	ErrInvalidChildType = errors.NewKind("%T: invalid child type, got %T, expected %T")

	// ErrUnhandledExpression is returned by a rewriting pass that reaches a
	// node shape it cannot process.
	ErrUnhandledExpression = errors.NewKind("unhandled expression '%s' of type %T encountered in %s")

	// ErrInvariantViolation is returned when a rewrite reaches a state that
	// should be unreachable for well-formed trees.
	ErrInvariantViolation = errors.NewKind("internal invariant violated: %s")

	// ErrParameterNotFound is returned when an expression references a
	// parameter that has no bound value.
	ErrParameterNotFound = errors.NewKind("no value was bound for parameter %q")

	// ErrInvalidParameterValue is returned when a parameter value does not
	// have the shape required by the expression referencing it.
	ErrInvalidParameterValue = errors.NewKind("parameter %q: expected %s, got %T")

	// ErrDuplicateParameterName is returned when two parameters of one
	// command end up with the same name.
	ErrDuplicateParameterName = errors.NewKind("parameter name %q is used more than once in the same command")

	// ErrNotSupported is returned when a reader is asked for a capability it
	// cannot provide.
	ErrNotSupported = errors.NewKind("%s is not supported by %s")

	// ErrInvalidCast is returned when a value cannot be read as the requested type.
	ErrInvalidCast = errors.NewKind("unable to read column %d as %s: value of type %T")

	// ErrNullValue is returned by a typed accessor when the value is null.
	ErrNullValue = errors.NewKind("column %d is null and cannot be read as %s")

	// ErrOrdinalOutOfRange is returned when a column ordinal is outside the
	// current result set.
	ErrOrdinalOutOfRange = errors.NewKind("column ordinal %d is out of range, the result set has %d columns")

	// ErrColumnNotFound is returned when looking up a column by a name that
	// does not exist in the current result set.
	ErrColumnNotFound = errors.NewKind("column %q could not be found in the result set")

	// ErrReaderClosed is returned by operations invoked on a closed reader.
	ErrReaderClosed = errors.NewKind("invalid attempt to use a closed reader")

	// ErrNoCurrentRow is returned when values are read before Read was called
	// or after it returned false.
	ErrNoCurrentRow = errors.NewKind("invalid attempt to read when no data is present")

	// ErrConcurrentInvocation is returned when a query context is used by a
	// second operation before the previous one completed.
	ErrConcurrentInvocation = errors.NewKind("a second operation was started on this context before a previous operation completed")
)
