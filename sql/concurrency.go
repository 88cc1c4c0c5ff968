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

import "golang.org/x/sync/semaphore"

// ConcurrencyDetector detects, without preventing, concurrent use of one
// session. Entering a critical section that is already held fails
// immediately with ErrConcurrentInvocation.
type ConcurrencyDetector struct {
	sem *semaphore.Weighted
}

// NewConcurrencyDetector returns a new detector.
func NewConcurrencyDetector() *ConcurrencyDetector {
	return &ConcurrencyDetector{sem: semaphore.NewWeighted(1)}
}

// EnterCriticalSection marks the session as busy. The returned function
// leaves the critical section. A nil detector is always free.
func (d *ConcurrencyDetector) EnterCriticalSection() (func(), error) {
	if d == nil {
		return func() {}, nil
	}

	if !d.sem.TryAcquire(1) {
		return nil, ErrConcurrentInvocation.New()
	}

	return func() { d.sem.Release(1) }, nil
}
