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

// Package cloud provides components for interacting with Google Cloud services.
// This file implements the video acquisition layer on top of the YouTube Data
// API. It uses the Decorator design pattern to add client-side quota
// management to the raw API service: the YouTube Data API enforces per-minute
// request quotas, and the ChannelFetcher spaces its calls with a rate limiter
// so a burst of analysis requests cannot exhaust them.
//
// Logic Flow:
//  1. `ExtractChannelID` resolves any supported channel URL form (an @handle
//     URL or a direct /channel/ URL) to a canonical channel id, calling the
//     channels endpoint for handle lookups.
//  2. `FetchChannelVideos` lists the channel's most recent video ids ordered
//     by date, then fetches snippet and statistics for all of them in one
//     videos call.
//  3. Every item is validated into a `model.VideoRecord` tagged with the
//     caller's source designation before it reaches the analytics core.
package cloud

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

var (
	handleURLPattern  = regexp.MustCompile(`youtube\.com/@([A-Za-z0-9_-]+)`)
	channelURLPattern = regexp.MustCompile(`youtube\.com/channel/([A-Za-z0-9_-]+)`)
)

// ChannelFetcher is a quota-aware wrapper over the YouTube Data API service.
// All calls pass through a shared rate limiter sized from configuration.
type ChannelFetcher struct {
	service    *youtube.Service
	maxResults int64
	limiter    *rate.Limiter
}

// NewChannelFetcher is the constructor for the ChannelFetcher.
//
// Inputs:
//   - ctx: The root context used to build the underlying API service.
//   - config: The YouTube data source configuration (API key, fetch size, quota).
//
// Outputs:
//   - *ChannelFetcher: A pointer to the newly created fetcher.
//   - error: An error if the underlying API service cannot be constructed.
func NewChannelFetcher(ctx context.Context, config *YouTubeDataSource) (*ChannelFetcher, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	requestsPerMinute := config.MaxRequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &ChannelFetcher{
		service:    service,
		maxResults: maxResults,
		// Replenish one request slot per interval with a burst of a full
		// minute's quota.
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
	}, nil
}

// ExtractChannelID resolves a YouTube channel URL to its canonical channel
// id. Handle URLs (youtube.com/@name) require a channels lookup; direct
// channel URLs (youtube.com/channel/UC...) are parsed locally without an API
// call.
//
// Inputs:
//   - ctx: The request context.
//   - channelURL: The channel URL supplied by the user.
//
// Outputs:
//   - string: The canonical channel id.
//   - error: A ConfigurationError for an unrecognized URL form, or the API error.
func (f *ChannelFetcher) ExtractChannelID(ctx context.Context, channelURL string) (string, error) {
	if m := handleURLPattern.FindStringSubmatch(channelURL); m != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", err
		}
		resp, err := f.service.Channels.List([]string{"id"}).ForHandle(m[1]).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("youtube channel lookup failed for handle %q: %w", m[1], err)
		}
		if len(resp.Items) == 0 {
			return "", &model.ConfigurationError{Reason: fmt.Sprintf("no channel found for handle %q", m[1])}
		}
		return resp.Items[0].Id, nil
	}
	if m := channelURLPattern.FindStringSubmatch(channelURL); m != nil {
		return m[1], nil
	}
	return "", &model.ConfigurationError{Reason: fmt.Sprintf("unrecognized channel url %q", channelURL)}
}

// FetchChannelVideos returns the channel's most recent videos with full
// statistics, validated and tagged with the given source.
//
// Inputs:
//   - ctx: The request context.
//   - channelURL: The channel URL supplied by the user.
//   - source: The source tag to apply to every fetched video.
//
// Outputs:
//   - []model.VideoRecord: The validated records, newest first.
//   - error: A resolution, API, or validation failure.
func (f *ChannelFetcher) FetchChannelVideos(ctx context.Context, channelURL string, source model.Source) ([]model.VideoRecord, error) {
	channelID, err := f.ExtractChannelID(ctx, channelURL)
	if err != nil {
		return nil, err
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	searchResp, err := f.service.Search.List([]string{"id"}).
		ChannelId(channelID).
		MaxResults(f.maxResults).
		Order("date").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed for channel %s: %w", channelID, err)
	}

	var videoIDs []string
	for _, item := range searchResp.Items {
		if item.Id != nil && item.Id.Kind == "youtube#video" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}
	if len(videoIDs) == 0 {
		return nil, nil
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	videoResp, err := f.service.Videos.List([]string{"snippet", "statistics"}).
		Id(videoIDs...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube video fetch failed for channel %s: %w", channelID, err)
	}

	return NewVideoRecords(videoResp.Items, source)
}

// NewVideoRecords validates a page of API video items into records tagged
// with the given source. Items missing their snippet, their statistics, or a
// parseable publish timestamp are skipped; a zero-valued timestamp would
// otherwise land the video in a bogus month bucket during trend analysis.
//
// Inputs:
//   - items: The raw API items from a videos.list call.
//   - source: The source tag to apply to every record.
//
// Outputs:
//   - []model.VideoRecord: The validated records, in API order.
//   - error: A validation failure from the record constructor.
func NewVideoRecords(items []*youtube.Video, source model.Source) ([]model.VideoRecord, error) {
	records := make([]model.VideoRecord, 0, len(items))
	for _, item := range items {
		if item.Snippet == nil || item.Statistics == nil {
			continue
		}
		publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			continue
		}
		record, err := model.NewVideoRecord(
			item.Id,
			item.Snippet.Title,
			item.Snippet.Description,
			publishedAt,
			int64(item.Statistics.ViewCount),
			int64(item.Statistics.LikeCount),
			int64(item.Statistics.CommentCount),
			source,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
