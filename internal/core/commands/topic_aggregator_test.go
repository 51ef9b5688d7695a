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
// commands. This file tests the grouping and aggregation machinery.
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

// scoredFixture builds a small scored working set with two topics across two
// sources. One video carries no topic and must stay out of topic tables.
func scoredFixture() []model.ScoredVideo {
	return []model.ScoredVideo{
		{VideoRecord: test.Video("a", "A", "", test.Month(2025, time.January), 1000, 50, 10, model.SourceOwn), Topic: "workout", EngagementScore: 0.07},
		{VideoRecord: test.Video("b", "B", "", test.Month(2025, time.February), 2000, 100, 20, model.SourceOwn), Topic: "workout", EngagementScore: 0.07},
		{VideoRecord: test.Video("c", "C", "", test.Month(2025, time.January), 4000, 200, 40, model.SourceCompetitor), Topic: "travel", EngagementScore: 0.07},
		{VideoRecord: test.Video("d", "D", "", test.Month(2025, time.January), 500, 10, 2, model.SourceOwn), Topic: "", EngagementScore: 0.028},
	}
}

// TestAggregateByTopic verifies the per-topic means and that untopiced videos
// are excluded.
func TestAggregateByTopic(t *testing.T) {
	byTopic, err := commands.GroupKeyByName("topic")
	assert.NoError(t, err)

	rows := commands.Aggregate(scoredFixture(), byTopic)
	assert.Equal(t, 2, len(rows))

	// Rows come back sorted by key.
	assert.Equal(t, "travel", rows[0].Topic)
	assert.Equal(t, "workout", rows[1].Topic)

	workout := rows[1]
	assert.Equal(t, 2, workout.VideoCount)
	assert.Equal(t, 1500.0, workout.AvgViews)
	assert.Equal(t, 75.0, workout.AvgLikes)
	assert.Equal(t, 15.0, workout.AvgComments)
	assert.InDelta(t, 0.07, workout.AvgEngagement, 1e-12)
}

// TestAggregateByMonth verifies month-granularity grouping.
func TestAggregateByMonth(t *testing.T) {
	byMonth, err := commands.GroupKeyByName("month")
	assert.NoError(t, err)

	rows := commands.Aggregate(scoredFixture(), byMonth)
	assert.Equal(t, 2, len(rows))
	assert.Equal(t, "2025-01", rows[0].Topic)
	assert.Equal(t, "2025-02", rows[1].Topic)
	// The untopiced video still counts here; month keys never come up empty.
	assert.Equal(t, 3, rows[0].VideoCount)
}

// TestAggregateCountsSum verifies that group counts partition the input:
// every topiced video lands in exactly one row.
func TestAggregateCountsSum(t *testing.T) {
	byTopic, _ := commands.GroupKeyByName("topic")
	rows := commands.Aggregate(scoredFixture(), byTopic)

	total := 0
	for _, r := range rows {
		total += r.VideoCount
	}
	topiced := 0
	for _, v := range scoredFixture() {
		if v.Topic != "" {
			topiced++
		}
	}
	assert.Equal(t, topiced, total)
}

// TestAggregateBySource verifies source-granularity grouping. The untopiced
// video still counts here because its source tag is always present.
func TestAggregateBySource(t *testing.T) {
	bySource, err := commands.GroupKeyByName("source")
	assert.NoError(t, err)

	rows := commands.Aggregate(scoredFixture(), bySource)
	assert.Equal(t, 2, len(rows))
	assert.Equal(t, "competitor", rows[0].Topic)
	assert.Equal(t, "own", rows[1].Topic)

	assert.Equal(t, 1, rows[0].VideoCount)
	own := rows[1]
	assert.Equal(t, 3, own.VideoCount)
	assert.InDelta(t, 3500.0/3, own.AvgViews, 1e-9)
	assert.InDelta(t, 0.168/3, own.AvgEngagement, 1e-12)
}

// TestAggregateByTopicMonth verifies the compound topic-month key: one row
// per topic per month, with untopiced videos excluded.
func TestAggregateByTopicMonth(t *testing.T) {
	byTopicMonth, err := commands.GroupKeyByName("topic_month")
	assert.NoError(t, err)

	rows := commands.Aggregate(scoredFixture(), byTopicMonth)
	assert.Equal(t, 3, len(rows))
	assert.Equal(t, "travel|2025-01", rows[0].Topic)
	assert.Equal(t, "workout|2025-01", rows[1].Topic)
	assert.Equal(t, "workout|2025-02", rows[2].Topic)
	for _, row := range rows {
		assert.Equal(t, 1, row.VideoCount)
	}
}

// TestGroupKeyByNameUnknown verifies that an unrecognized grouping name fails
// with a ConfigurationError.
func TestGroupKeyByNameUnknown(t *testing.T) {
	_, err := commands.GroupKeyByName("week")
	assert.Error(t, err)

	var configErr *model.ConfigurationError
	assert.True(t, errors.As(err, &configErr))
}

// TestAggregateEmptyInput verifies that an empty working set produces an
// empty table, never a divide-by-zero.
func TestAggregateEmptyInput(t *testing.T) {
	byTopic, _ := commands.GroupKeyByName("topic")
	rows := commands.Aggregate(nil, byTopic)
	assert.Equal(t, 0, len(rows))
}
