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
// commands. This file tests growth rating and insight generation.
package commands_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/commands"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
	test "github.com/jaycherian/gcp-go-social-analytics/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func insightVideo(id string, source model.Source, score float64) model.ScoredVideo {
	return model.ScoredVideo{
		VideoRecord:     test.Video(id, "Video "+id, "", test.Month(2025, time.January), 1000, 0, 0, source),
		Topic:           "workout",
		EngagementScore: score,
	}
}

func floatPtr(v float64) *float64 { return &v }

// TestRateGrowth verifies the band boundaries, which are inclusive on the
// lower side. The boundary cases use a zero baseline so the subtraction is
// exact and the delta equals the threshold constant bit for bit.
func TestRateGrowth(t *testing.T) {
	delta, rating := commands.RateGrowth(0.056, floatPtr(0.05))
	assert.Equal(t, model.GrowthStrong, rating)
	assert.InDelta(t, 0.006, *delta, 1e-12)

	_, rating = commands.RateGrowth(0.005, floatPtr(0.0))
	assert.Equal(t, model.GrowthStrong, rating)

	_, rating = commands.RateGrowth(0.001, floatPtr(0.0))
	assert.Equal(t, model.GrowthPositive, rating)

	_, rating = commands.RateGrowth(0.053, floatPtr(0.05))
	assert.Equal(t, model.GrowthPositive, rating)

	_, rating = commands.RateGrowth(0.05, floatPtr(0.05))
	assert.Equal(t, model.GrowthFlat, rating)

	_, rating = commands.RateGrowth(0.0495, floatPtr(0.05))
	assert.Equal(t, model.GrowthFlat, rating)

	_, rating = commands.RateGrowth(0.048, floatPtr(0.05))
	assert.Equal(t, model.GrowthNeedsImprovement, rating)
}

// TestRateGrowthNoBaseline verifies the nil-baseline case: no delta, the
// explicit "no baseline" rating, no error.
func TestRateGrowthNoBaseline(t *testing.T) {
	delta, rating := commands.RateGrowth(0.05, nil)
	assert.Nil(t, delta)
	assert.Equal(t, model.GrowthNoBaseline, rating)
}

// TestGenerateInsightsBuckets verifies the performer buckets: high is
// strictly above the mean, low strictly below 0.6x the mean, and no video is
// ever in both when the mean is positive.
func TestGenerateInsightsBuckets(t *testing.T) {
	// Mean = (0.10 + 0.05 + 0.01) / 3 = 0.0533...
	videos := []model.ScoredVideo{
		insightVideo("a", model.SourceOwn, 0.10),
		insightVideo("b", model.SourceOwn, 0.05),
		insightVideo("c", model.SourceOwn, 0.01),
	}

	report, err := commands.GenerateInsights(videos, nil, nil, "")
	assert.NoError(t, err)
	assert.InDelta(t, 0.16/3, report.AverageEngagement, 1e-12)

	assert.Equal(t, 1, len(report.HighPerformingVideos))
	assert.Equal(t, "Video a", report.HighPerformingVideos[0].Title)
	assert.Equal(t, 1, len(report.LowPerformingVideos))
	assert.Equal(t, "Video c", report.LowPerformingVideos[0].Title)

	// Both bucket insights plus the constant consistency insight.
	assert.Contains(t, report.Insights, "Videos with concise titles and clear topics perform better.")
	assert.Contains(t, report.Insights, "Some videos have significantly lower engagement. Avoid generic titles and weak hooks.")
	assert.Contains(t, report.Insights, "Maintaining consistency in topic and format improves engagement over time.")
}

// TestGenerateInsightsHighlightLimits verifies the three-high/two-low caps
// and the ordering within each bucket.
func TestGenerateInsightsHighlightLimits(t *testing.T) {
	videos := []model.ScoredVideo{
		insightVideo("h1", model.SourceOwn, 0.90),
		insightVideo("h2", model.SourceOwn, 0.80),
		insightVideo("h3", model.SourceOwn, 0.70),
		insightVideo("h4", model.SourceOwn, 0.60),
		insightVideo("l1", model.SourceOwn, 0.001),
		insightVideo("l2", model.SourceOwn, 0.002),
		insightVideo("l3", model.SourceOwn, 0.003),
	}

	report, err := commands.GenerateInsights(videos, nil, nil, "")
	assert.NoError(t, err)

	assert.Equal(t, 3, len(report.HighPerformingVideos))
	assert.Equal(t, "Video h1", report.HighPerformingVideos[0].Title)
	assert.Equal(t, 2, len(report.LowPerformingVideos))
	assert.Equal(t, "Video l1", report.LowPerformingVideos[0].Title)

	// Four high and three low performers trip both count-gated
	// recommendations; the mean is far above the hook threshold, so that one
	// stays out.
	assert.Contains(t, report.Recommendations, "Double down on topics similar to your top-performing videos.")
	assert.Contains(t, report.Recommendations, "Rework or avoid content styles seen in low-performing videos.")
	assert.NotContains(t, report.Recommendations, "Focus on stronger hooks in the first 5 seconds of videos.")
}

// TestGenerateInsightsHookRecommendation verifies the mean-gated hook advice.
func TestGenerateInsightsHookRecommendation(t *testing.T) {
	videos := []model.ScoredVideo{
		insightVideo("a", model.SourceOwn, 0.01),
		insightVideo("b", model.SourceOwn, 0.02),
	}

	report, err := commands.GenerateInsights(videos, nil, nil, "")
	assert.NoError(t, err)
	assert.Contains(t, report.Recommendations, "Focus on stronger hooks in the first 5 seconds of videos.")
}

// TestGenerateInsightsNoOwnVideos verifies that competitor-only runs fail
// with an InsufficientDataError.
func TestGenerateInsightsNoOwnVideos(t *testing.T) {
	videos := []model.ScoredVideo{
		insightVideo("c1", model.SourceCompetitor, 0.05),
	}

	_, err := commands.GenerateInsights(videos, nil, nil, "")
	assert.Error(t, err)

	var dataErr *model.InsufficientDataError
	assert.True(t, errors.As(err, &dataErr))
}

// TestGenerateInsightsGoalTips verifies the goal-conditioned tips, including
// that an unrecognized goal produces none.
func TestGenerateInsightsGoalTips(t *testing.T) {
	videos := []model.ScoredVideo{
		insightVideo("a", model.SourceOwn, 0.01),
		insightVideo("b", model.SourceOwn, 0.02),
	}
	gaps := []model.GapEntry{{Topic: "travel", VideoCount: 2, AvgEngagement: 0.09}}

	report, err := commands.GenerateInsights(videos, gaps, nil, model.GoalGrowEngagement)
	assert.NoError(t, err)
	// Low mean plus a non-empty gap list yields both grow_engagement tips.
	assert.Equal(t, 2, len(report.GoalTips))
	assert.Contains(t, report.GoalTips[1], "'travel'")

	report, err = commands.GenerateInsights(videos, gaps, nil, model.GoalBeatCompetitors)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(report.GoalTips))
	assert.Contains(t, report.GoalTips[0], "'travel'")

	report, err = commands.GenerateInsights(videos, gaps, nil, model.GoalUnderstandWhatWorks)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(report.GoalTips))

	report, err = commands.GenerateInsights(videos, gaps, nil, "go_viral")
	assert.NoError(t, err)
	assert.Empty(t, report.GoalTips)
}

// TestGenerateInsightsGrowth verifies that the report carries the growth
// rating against the supplied baseline.
func TestGenerateInsightsGrowth(t *testing.T) {
	videos := []model.ScoredVideo{
		insightVideo("a", model.SourceOwn, 0.05),
		insightVideo("b", model.SourceOwn, 0.05),
	}

	report, err := commands.GenerateInsights(videos, nil, floatPtr(0.04), "")
	assert.NoError(t, err)
	assert.Equal(t, model.GrowthStrong, report.GrowthRating)
	assert.NotNil(t, report.GrowthDelta)
	assert.InDelta(t, 0.01, *report.GrowthDelta, 1e-12)

	report, err = commands.GenerateInsights(videos, nil, nil, "")
	assert.NoError(t, err)
	assert.Equal(t, model.GrowthNoBaseline, report.GrowthRating)
	assert.Nil(t, report.GrowthDelta)
}
