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

// Package model_test contains unit tests for the data models defined in the
// model package. This file tests the validation performed at the video
// ingestion boundary.
package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
	"github.com/stretchr/testify/assert"
)

// TestNewVideoRecord tests the happy path of the ingestion constructor.
func TestNewVideoRecord(t *testing.T) {
	published := time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC)
	v, err := model.NewVideoRecord("vid-1", "Morning workout", "Leg day #fitness", published, 1000, 50, 10, model.SourceOwn)

	assert.NoError(t, err)
	assert.Equal(t, "vid-1", v.ID)
	assert.Equal(t, "Morning workout", v.Title)
	assert.Equal(t, published, v.PublishedAt)
	assert.Equal(t, int64(1000), v.Views)
	assert.Equal(t, model.SourceOwn, v.Source)
}

// TestNewVideoRecordValidation tests the two rejection cases: a blank id and
// an unknown source tag.
func TestNewVideoRecordValidation(t *testing.T) {
	var configErr *model.ConfigurationError

	_, err := model.NewVideoRecord("  ", "Title", "", time.Now(), 0, 0, 0, model.SourceOwn)
	assert.Error(t, err)
	assert.True(t, errors.As(err, &configErr))

	_, err = model.NewVideoRecord("vid-1", "Title", "", time.Now(), 0, 0, 0, model.Source("friend"))
	assert.Error(t, err)
	assert.True(t, errors.As(err, &configErr))
}

// TestNewVideoRecordClampsCounters tests that negative counters are clamped
// to zero rather than rejected.
func TestNewVideoRecordClampsCounters(t *testing.T) {
	v, err := model.NewVideoRecord("vid-1", "Title", "", time.Now(), -5, -1, -100, model.SourceCompetitor)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), v.Views)
	assert.Equal(t, int64(0), v.Likes)
	assert.Equal(t, int64(0), v.Comments)
}

// TestVideoRecordMonth tests the year-month truncation used by trend
// bucketing.
func TestVideoRecordMonth(t *testing.T) {
	v, err := model.NewVideoRecord("vid-1", "Title", "", time.Date(2025, time.March, 31, 23, 59, 0, 0, time.UTC), 0, 0, 0, model.SourceOwn)
	assert.NoError(t, err)
	assert.Equal(t, "2025-03", v.Month())
}

// TestSourceValid tests the source tag enumeration.
func TestSourceValid(t *testing.T) {
	assert.True(t, model.SourceOwn.Valid())
	assert.True(t, model.SourceCompetitor.Valid())
	assert.False(t, model.Source("").Valid())
	assert.False(t, model.Source("friend").Valid())
}
