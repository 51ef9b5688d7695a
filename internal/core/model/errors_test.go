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

package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
	"github.com/stretchr/testify/assert"
)

// TestTypedErrors verifies the error messages and that both types survive
// wrapping, which the HTTP layer depends on for status mapping.
func TestTypedErrors(t *testing.T) {
	configErr := &model.ConfigurationError{Reason: "bad topic count"}
	assert.Equal(t, "configuration error: bad topic count", configErr.Error())

	dataErr := &model.InsufficientDataError{Reason: "no own videos"}
	assert.Equal(t, "insufficient data: no own videos", dataErr.Error())

	wrapped := fmt.Errorf("pipeline failed: %w", configErr)
	var target *model.ConfigurationError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "bad topic count", target.Reason)
}
