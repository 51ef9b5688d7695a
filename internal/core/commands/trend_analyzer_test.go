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
// commands. This file tests trend point construction and classification.
package commands_test

import (
	"testing"
	"time"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/commands"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
	test "github.com/jaycherian/gcp-go-social-analytics/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func trendVideo(id, topic string, month time.Month, score float64) model.ScoredVideo {
	return model.ScoredVideo{
		VideoRecord:     test.Video(id, id, "", test.Month(2025, month), 1000, 0, 0, model.SourceOwn),
		Topic:           topic,
		EngagementScore: score,
	}
}

// TestBuildTrendPoints verifies the topic-month bucketing, in-bucket
// averaging, and output ordering.
func TestBuildTrendPoints(t *testing.T) {
	videos := []model.ScoredVideo{
		trendVideo("a", "workout", time.January, 0.02),
		trendVideo("b", "workout", time.January, 0.04),
		trendVideo("c", "workout", time.February, 0.05),
		trendVideo("d", "meal", time.March, 0.01),
	}

	points := commands.BuildTrendPoints(videos)
	assert.Equal(t, 3, len(points))

	// Ordered by topic, then month.
	assert.Equal(t, "meal", points[0].Topic)
	assert.Equal(t, "workout", points[1].Topic)
	assert.Equal(t, "2025-01", points[1].Month)
	assert.InDelta(t, 0.03, points[1].AvgEngagement, 1e-12)
	assert.Equal(t, "2025-02", points[2].Month)
	assert.InDelta(t, 0.05, points[2].AvgEngagement, 1e-12)
}

// TestClassifyTrendsSingleMonth verifies that one month bucket classifies as
// stable with the bucket's value as latest and no suggestion.
func TestClassifyTrendsSingleMonth(t *testing.T) {
	trends := commands.ClassifyTrends([]model.TrendPoint{
		{Topic: "workout", Month: "2025-01", AvgEngagement: 0.04},
	})
	assert.Equal(t, 1, len(trends))
	assert.Equal(t, model.TrendStable, trends[0].Trend)
	assert.NotNil(t, trends[0].LatestEngagement)
	assert.InDelta(t, 0.04, *trends[0].LatestEngagement, 1e-12)
	assert.Empty(t, trends[0].Suggestion)
}

// TestClassifyTrendsNoPoints verifies the degenerate zero-bucket case.
func TestClassifyTrendsNoPoints(t *testing.T) {
	trends := commands.ClassifyTrends(nil)
	assert.Equal(t, 0, len(trends))
}

// TestClassifyTrendsUpAndDown verifies the two-bucket comparison and the
// attached suggestions.
func TestClassifyTrendsUpAndDown(t *testing.T) {
	trends := commands.ClassifyTrends([]model.TrendPoint{
		{Topic: "meal", Month: "2025-01", AvgEngagement: 0.05},
		{Topic: "meal", Month: "2025-02", AvgEngagement: 0.02},
		{Topic: "workout", Month: "2025-01", AvgEngagement: 0.02},
		{Topic: "workout", Month: "2025-02", AvgEngagement: 0.05},
	})
	assert.Equal(t, 2, len(trends))

	assert.Equal(t, model.TrendDown, trends[0].Trend)
	assert.Equal(t, "Reduce posting on 'meal' - engagement is declining.", trends[0].Suggestion)

	assert.Equal(t, model.TrendUp, trends[1].Trend)
	assert.Equal(t, "Post more content on 'workout' - engagement is increasing.", trends[1].Suggestion)
}

// TestClassifyTrendsTie verifies the documented tie behavior: equal adjacent
// months classify as down, not stable.
func TestClassifyTrendsTie(t *testing.T) {
	trends := commands.ClassifyTrends([]model.TrendPoint{
		{Topic: "workout", Month: "2025-01", AvgEngagement: 0.03},
		{Topic: "workout", Month: "2025-02", AvgEngagement: 0.03},
	})
	assert.Equal(t, model.TrendDown, trends[0].Trend)
}

// TestClassifyTrendsUsesLastTwoMonths verifies that only the two most recent
// buckets drive the classification.
func TestClassifyTrendsUsesLastTwoMonths(t *testing.T) {
	// Overall the topic declined, but the final step is up.
	trends := commands.ClassifyTrends([]model.TrendPoint{
		{Topic: "workout", Month: "2025-01", AvgEngagement: 0.09},
		{Topic: "workout", Month: "2025-02", AvgEngagement: 0.01},
		{Topic: "workout", Month: "2025-03", AvgEngagement: 0.02},
	})
	assert.Equal(t, model.TrendUp, trends[0].Trend)
	assert.InDelta(t, 0.02, *trends[0].LatestEngagement, 1e-12)
}
