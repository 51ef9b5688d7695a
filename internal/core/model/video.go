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
// This file contains the video-level value types: the immutable VideoRecord
// supplied by the acquisition layer at the start of an analysis run, and the
// derived ScoredVideo produced by the pipeline. VideoRecords are validated at
// the ingestion boundary (see NewVideoRecord) so the analytics core can treat
// them as well-formed.
package model

import (
	"strings"
	"time"
)

// Source partitions videos into the analyzed user's own channel versus
// tracked rival channels.
type Source string

const (
	// SourceOwn marks a video from the analyzed user's channel.
	SourceOwn Source = "own"
	// SourceCompetitor marks a video from a tracked rival channel.
	SourceCompetitor Source = "competitor"
)

// Valid reports whether the source tag is one of the two known values.
func (s Source) Valid() bool {
	return s == SourceOwn || s == SourceCompetitor
}

// VideoRecord holds the raw per-video metrics for one analysis run. Records
// are supplied whole by the acquisition layer and never mutated afterward.
type VideoRecord struct {
	ID          string    `json:"video_id" bigquery:"video_id"`         // The platform's unique video identifier.
	Title       string    `json:"title" bigquery:"title"`               // The video title.
	Description string    `json:"description" bigquery:"description"`   // The video description, including any hashtags.
	PublishedAt time.Time `json:"published_at" bigquery:"published_at"` // When the video was published.
	Views       int64     `json:"views" bigquery:"views"`               // Total view count at fetch time.
	Likes       int64     `json:"likes" bigquery:"likes"`               // Total like count at fetch time.
	Comments    int64     `json:"comments" bigquery:"comments"`         // Total comment count at fetch time.
	Source      Source    `json:"source" bigquery:"source"`             // Whether the video is "own" or "competitor".
}

// NewVideoRecord validates and constructs a VideoRecord at the ingestion
// boundary. Negative counters are clamped to zero and the source tag must be
// one of the known values; the analytics core relies on both guarantees.
//
// Inputs:
//   - id: The platform video identifier.
//   - title, description: The raw text fields.
//   - publishedAt: The publication timestamp.
//   - views, likes, comments: The raw counters.
//   - source: The source tag ("own" or "competitor").
//
// Outputs:
//   - VideoRecord: The validated record.
//   - error: A ConfigurationError when the id is blank or the source tag is unknown.
func NewVideoRecord(id, title, description string, publishedAt time.Time, views, likes, comments int64, source Source) (VideoRecord, error) {
	if strings.TrimSpace(id) == "" {
		return VideoRecord{}, &ConfigurationError{Reason: "video record requires a non-empty id"}
	}
	if !source.Valid() {
		return VideoRecord{}, &ConfigurationError{Reason: "video source must be \"own\" or \"competitor\""}
	}
	return VideoRecord{
		ID:          id,
		Title:       title,
		Description: description,
		PublishedAt: publishedAt,
		Views:       max64(views, 0),
		Likes:       max64(likes, 0),
		Comments:    max64(comments, 0),
		Source:      source,
	}, nil
}

// ScoredVideo is a VideoRecord enriched with the topic label and engagement
// score assigned by the current run. It is recomputed per analysis and never
// persisted independently of its run.
type ScoredVideo struct {
	VideoRecord
	Topic           string  `json:"topic" bigquery:"topic"`                       // The cluster label from this run's topic model; empty when the corpus was empty.
	EngagementScore float64 `json:"engagement_score" bigquery:"engagement_score"` // (likes + 2*comments) / max(views, 1).
}

// Month returns the video's publication month truncated to year-month
// granularity, formatted as "2006-01". Trend analysis buckets on this value.
func (v *VideoRecord) Month() string {
	return v.PublishedAt.Format("2006-01")
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
