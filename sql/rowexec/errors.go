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

package rowexec

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrRetryLimitExceeded is returned by RetryingStrategy when a transient
	// failure persists after the configured number of retries.
	ErrRetryLimitExceeded = errors.NewKind("maximum number of retries (%d) exceeded while executing the query")

	// ErrCollectionNotInitialized is returned when a collection is populated
	// before it was initialized for the current element.
	ErrCollectionNotInitialized = errors.NewKind("collection %d was populated before being initialized")

	// ErrIterClosed is returned by Next on a closed iterator.
	ErrIterClosed = errors.NewKind("invalid attempt to iterate a closed query")
)
