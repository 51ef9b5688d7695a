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

// Package commands_test contains unit tests for the analysis pipeline
// commands. This file tests the engagement scoring step.
package commands_test

import (
	"testing"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/commands"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
	test "github.com/jaycherian/gcp-go-social-analytics/internal/testutil"
	"github.com/stretchr/testify/assert"
)

// TestEngagementScore verifies the scoring formula, including the comment
// double-weighting.
func TestEngagementScore(t *testing.T) {
	// (50 + 2*10) / 1000 = 0.07
	assert.InDelta(t, 0.07, commands.EngagementScore(1000, 50, 10), 1e-12)

	// No interactions at all scores zero.
	assert.Equal(t, 0.0, commands.EngagementScore(1000, 0, 0))
}

// TestEngagementScoreZeroViews verifies the view floor: a zero-view video is
// scored against a denominator of one instead of being discarded.
func TestEngagementScoreZeroViews(t *testing.T) {
	// (50 + 2*10) / max(0, 1) = 70
	assert.Equal(t, 70.0, commands.EngagementScore(0, 50, 10))
}

// TestEngagementScoreMonotonic verifies that more likes or comments never
// lower the score at a fixed view count.
func TestEngagementScoreMonotonic(t *testing.T) {
	base := commands.EngagementScore(1000, 50, 10)
	assert.Greater(t, commands.EngagementScore(1000, 51, 10), base)
	assert.Greater(t, commands.EngagementScore(1000, 50, 11), base)

	// A comment moves the score twice as far as a like.
	likeStep := commands.EngagementScore(1000, 51, 10) - base
	commentStep := commands.EngagementScore(1000, 50, 11) - base
	assert.InDelta(t, 2*likeStep, commentStep, 1e-12)
}

// TestScoreVideos verifies the label join and that scoring preserves input
// order and length.
func TestScoreVideos(t *testing.T) {
	videos := test.FitnessChannelVideos()
	labels := make([]string, len(videos))
	for i := range labels {
		labels[i] = "workout, routine"
	}

	scored := commands.ScoreVideos(videos, labels)
	assert.Equal(t, len(videos), len(scored))
	for i, s := range scored {
		assert.Equal(t, videos[i].ID, s.ID)
		assert.Equal(t, "workout, routine", s.Topic)
		assert.Equal(t, commands.EngagementScore(s.Views, s.Likes, s.Comments), s.EngagementScore)
	}
	assert.Equal(t, model.SourceOwn, scored[0].Source)
}
