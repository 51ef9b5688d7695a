// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package model defines the core data structures for the application.
// This file holds the typed failure modes of the analytics engine. Numeric
// degeneracies (division by zero, empty groups, empty corpora) are never
// errors; they are resolved locally with zero values or empty structures.
// Only structural impossibilities surface to the caller, as one of the two
// types below, and always before any output is produced.
package model

import "fmt"

// ConfigurationError reports an impossible configuration, such as a topic
// count exceeding the number of distinct documents or an unknown aggregation
// key.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// InsufficientDataError reports that a run lacks the data its requested
// analysis requires, such as zero own-side videos when own-side insights are
// being generated. Competitor-only data is not a substitute.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s", e.Reason)
}
