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

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dolthub/go-query-shaper/sql"
)

// ExecutionStrategy runs the operations that open readers. Reads of rows
// already handed out are never run through it.
type ExecutionStrategy interface {
	Execute(ctx *sql.Context, op func(ctx *sql.Context) error) error
}

// NoRetryStrategy runs operations once.
type NoRetryStrategy struct{}

var _ ExecutionStrategy = NoRetryStrategy{}

// Execute implements the ExecutionStrategy interface.
func (NoRetryStrategy) Execute(ctx *sql.Context, op func(ctx *sql.Context) error) error {
	return op(ctx)
}

// RetryingStrategy retries operations failing with a transient error.
// Cancellation is never retried.
type RetryingStrategy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// Delay is the wait between two attempts.
	Delay time.Duration
	// IsTransient classifies errors. A nil classifier retries nothing.
	IsTransient func(error) bool
}

var _ ExecutionStrategy = (*RetryingStrategy)(nil)

// Execute implements the ExecutionStrategy interface.
func (s *RetryingStrategy) Execute(ctx *sql.Context, op func(ctx *sql.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		if ctx.Err() != nil || isCancellation(err) {
			return err
		}

		if s.IsTransient == nil || !s.IsTransient(err) {
			return err
		}

		if attempt >= s.MaxRetries {
			return ErrRetryLimitExceeded.Wrap(err, s.MaxRetries)
		}

		ctx.Logger().WithError(err).WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"delay":   s.Delay,
		}).Warn("transient failure executing query, retrying")

		timer := time.NewTimer(s.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
