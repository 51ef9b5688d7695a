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

// Package cloud_test contains unit tests for the cloud integration layer.
// This file tests the pieces that need no API calls: channel URL resolution
// and the validation of raw API items into video records. Handle lookups go
// through the channels endpoint and are covered by the integration
// environment instead.
package cloud_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/youtube/v3"

	"github.com/jaycherian/gcp-go-social-analytics/internal/cloud"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

func newTestFetcher(t *testing.T) *cloud.ChannelFetcher {
	fetcher, err := cloud.NewChannelFetcher(context.Background(), &cloud.YouTubeDataSource{
		APIKey:               "test-api-key",
		MaxResults:           5,
		MaxRequestsPerMinute: 600,
	})
	assert.NoError(t, err)
	return fetcher
}

// TestExtractChannelIDDirectURL verifies that /channel/ URLs resolve locally.
func TestExtractChannelIDDirectURL(t *testing.T) {
	fetcher := newTestFetcher(t)

	id, err := fetcher.ExtractChannelID(context.Background(), "https://www.youtube.com/channel/UC1234abcd_-XY")
	assert.NoError(t, err)
	assert.Equal(t, "UC1234abcd_-XY", id)
}

// TestExtractChannelIDUnrecognized verifies that an unsupported URL form
// fails with a ConfigurationError.
func TestExtractChannelIDUnrecognized(t *testing.T) {
	fetcher := newTestFetcher(t)

	_, err := fetcher.ExtractChannelID(context.Background(), "https://example.com/some-channel")
	assert.Error(t, err)

	var configErr *model.ConfigurationError
	assert.True(t, errors.As(err, &configErr))
}

// TestNewVideoRecordsSkipsMalformed verifies that items missing their
// snippet, their statistics, or a parseable publish timestamp are dropped at
// the ingestion boundary. A zero-valued timestamp would otherwise bucket the
// video into a bogus month during trend analysis.
func TestNewVideoRecordsSkipsMalformed(t *testing.T) {
	items := []*youtube.Video{
		{
			Id:         "good-1",
			Snippet:    &youtube.VideoSnippet{Title: "Morning workout", Description: "#fitness", PublishedAt: "2025-03-01T10:00:00Z"},
			Statistics: &youtube.VideoStatistics{ViewCount: 1000, LikeCount: 50, CommentCount: 10},
		},
		{Id: "no-snippet", Statistics: &youtube.VideoStatistics{ViewCount: 10}},
		{Id: "no-stats", Snippet: &youtube.VideoSnippet{PublishedAt: "2025-03-02T10:00:00Z"}},
		{
			Id:         "bad-timestamp",
			Snippet:    &youtube.VideoSnippet{Title: "Broken clock", PublishedAt: "not-a-timestamp"},
			Statistics: &youtube.VideoStatistics{ViewCount: 10},
		},
	}

	records, err := cloud.NewVideoRecords(items, model.SourceOwn)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(records))
	assert.Equal(t, "good-1", records[0].ID)
	assert.Equal(t, "2025-03", records[0].Month())
	assert.Equal(t, model.SourceOwn, records[0].Source)
	assert.Equal(t, int64(1000), records[0].Views)
}
