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

package shaper

import (
	"github.com/sirupsen/logrus"
)

// ComponentLogField is the log field naming the component logging.
const ComponentLogField = "component"

// NewLogger returns the base logger of an engine. Debug configurations log
// at debug level.
func NewLogger(cfg Config) *logrus.Entry {
	logger := logrus.StandardLogger()
	if cfg.Debug {
		logger = logrus.New()
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger.WithField(ComponentLogField, "shaper")
}
