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
// model package. This file tests the persistent row shapes and the snapshot
// reconstruction from its serialized form.
package model_test

import (
	"testing"
	"time"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
	"github.com/zeebo/assert"
)

// TestNewAnalysisRunRow tests the snapshot flattening and that the full
// snapshot survives the serialize-reconstruct round trip.
func TestNewAnalysisRunRow(t *testing.T) {
	latest := 0.04
	snapshot := &model.AnalysisSnapshot{
		RunID:                "run-123",
		UserID:               "user-1",
		ChannelURL:           "https://youtube.com/@fitness",
		AnalyzedAt:           time.Date(2025, time.April, 1, 9, 30, 0, 0, time.UTC),
		TotalVideos:          8,
		OwnAverageEngagement: 0.05,
		Topics: model.TopicSummarySet{
			Own: []model.TopicSummary{{Topic: "workout", VideoCount: 5, AvgEngagement: 0.05}},
		},
		Trends: []model.TopicTrend{
			{Topic: "workout", Trend: model.TrendUp, LatestEngagement: &latest, Suggestion: "Post more content on 'workout' - engagement is increasing."},
		},
		Gaps: []model.GapEntry{{Topic: "travel", VideoCount: 2, AvgEngagement: 0.09}},
		Insights: model.InsightReport{
			AverageEngagement: 0.05,
			GrowthRating:      model.GrowthNoBaseline,
			Insights:          []string{"Maintaining consistency in topic and format improves engagement over time."},
		},
	}

	row, err := model.NewAnalysisRunRow(snapshot)
	assert.NoError(t, err)
	assert.Equal(t, "run-123", row.RunID)
	assert.Equal(t, "user-1", row.UserID)
	assert.Equal(t, 8, row.TotalVideos)
	assert.Equal(t, 0.05, row.OwnAverageEngagement)
	assert.True(t, len(row.SnapshotJSON) > 0)

	restored, err := row.Snapshot()
	assert.NoError(t, err)
	assert.DeepEqual(t, snapshot, restored)
}

// TestNewScoredVideoRows tests the per-video flattening and run tagging.
func TestNewScoredVideoRows(t *testing.T) {
	videos := []model.ScoredVideo{
		{
			VideoRecord: model.VideoRecord{
				ID:          "vid-1",
				Title:       "Morning workout",
				PublishedAt: time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC),
				Views:       1000,
				Likes:       50,
				Comments:    10,
				Source:      model.SourceOwn,
			},
			Topic:           "workout",
			EngagementScore: 0.07,
		},
	}

	rows := model.NewScoredVideoRows("run-123", videos)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, "run-123", rows[0].RunID)
	assert.Equal(t, "vid-1", rows[0].VideoID)
	assert.Equal(t, "own", rows[0].Source)
	assert.Equal(t, "workout", rows[0].Topic)
	assert.Equal(t, 0.07, rows[0].EngagementScore)
}
