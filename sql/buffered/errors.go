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

package buffered

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrMaterializingProperty is returned in detailed mode when a column
	// mapped to a property cannot be read as the expected kind.
	ErrMaterializingProperty = errors.NewKind("an error occurred while reading a database value for property '%s.%s': expected a value of kind %s but got %#v")

	// ErrMaterializingPropertyNull is returned in detailed mode when a
	// column mapped to a non-nullable property contains null.
	ErrMaterializingPropertyNull = errors.NewKind("an error occurred while reading a database value for property '%s.%s': the property is not nullable but the column %d contains null")

	// ErrMaterializingValue is returned in detailed mode when a column with
	// no property cannot be read as the expected kind.
	ErrMaterializingValue = errors.NewKind("an error occurred while reading a database value at ordinal %d: expected a value of kind %s but got %#v")

	// ErrColumnNotBuffered is returned when reading a column that was
	// declared absent.
	ErrColumnNotBuffered = errors.NewKind("column %d was not read into the buffer")

	// ErrNotInitialized is returned when a reader is used before Initialize.
	ErrNotInitialized = errors.NewKind("the buffered reader was not initialized")
)
