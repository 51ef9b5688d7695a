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
// This file holds the persistent shapes written to and read from BigQuery.
// The run table stores one flat row per analysis with the queryable scalars
// broken out as columns and the full snapshot serialized alongside; the
// video table stores one row per scored video so topic and engagement data
// can be queried directly in SQL.
package model

import (
	"encoding/json"
	"time"
)

// AnalysisRunRow is one row of the analysis runs table. The scalar columns
// back the history and baseline queries; SnapshotJSON carries the complete
// snapshot for exact reconstruction.
type AnalysisRunRow struct {
	RunID                string    `bigquery:"run_id" json:"run_id"`
	UserID               string    `bigquery:"user_id" json:"user_id"`
	ChannelURL           string    `bigquery:"channel_url" json:"channel_url"`
	AnalyzedAt           time.Time `bigquery:"analyzed_at" json:"analyzed_at"`
	TotalVideos          int       `bigquery:"total_videos" json:"total_videos"`
	OwnAverageEngagement float64   `bigquery:"own_avg_engagement" json:"own_avg_engagement"`
	SnapshotJSON         string    `bigquery:"snapshot_json" json:"snapshot_json"`
}

// NewAnalysisRunRow flattens a snapshot into its persistent row form.
//
// Inputs:
//   - snapshot: The completed analysis snapshot.
//
// Outputs:
//   - AnalysisRunRow: The row ready for insertion.
//   - error: A serialization failure, which should never happen for a
//     well-formed snapshot.
func NewAnalysisRunRow(snapshot *AnalysisSnapshot) (AnalysisRunRow, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return AnalysisRunRow{}, err
	}
	return AnalysisRunRow{
		RunID:                snapshot.RunID,
		UserID:               snapshot.UserID,
		ChannelURL:           snapshot.ChannelURL,
		AnalyzedAt:           snapshot.AnalyzedAt,
		TotalVideos:          snapshot.TotalVideos,
		OwnAverageEngagement: snapshot.OwnAverageEngagement,
		SnapshotJSON:         string(payload),
	}, nil
}

// Snapshot reconstructs the full AnalysisSnapshot from the row's serialized
// payload.
func (r *AnalysisRunRow) Snapshot() (*AnalysisSnapshot, error) {
	var snapshot AnalysisSnapshot
	if err := json.Unmarshal([]byte(r.SnapshotJSON), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// ScoredVideoRow is one row of the per-run videos table.
type ScoredVideoRow struct {
	RunID           string    `bigquery:"run_id" json:"run_id"`
	VideoID         string    `bigquery:"video_id" json:"video_id"`
	Title           string    `bigquery:"title" json:"title"`
	PublishedAt     time.Time `bigquery:"published_at" json:"published_at"`
	Views           int64     `bigquery:"views" json:"views"`
	Likes           int64     `bigquery:"likes" json:"likes"`
	Comments        int64     `bigquery:"comments" json:"comments"`
	Source          string    `bigquery:"source" json:"source"`
	Topic           string    `bigquery:"topic" json:"topic"`
	EngagementScore float64   `bigquery:"engagement_score" json:"engagement_score"`
}

// NewScoredVideoRows maps the run's scored videos into their persistent row
// form, tagged with the owning run's id.
func NewScoredVideoRows(runID string, videos []ScoredVideo) []ScoredVideoRow {
	rows := make([]ScoredVideoRow, 0, len(videos))
	for _, v := range videos {
		rows = append(rows, ScoredVideoRow{
			RunID:           runID,
			VideoID:         v.ID,
			Title:           v.Title,
			PublishedAt:     v.PublishedAt,
			Views:           v.Views,
			Likes:           v.Likes,
			Comments:        v.Comments,
			Source:          string(v.Source),
			Topic:           v.Topic,
			EngagementScore: v.EngagementScore,
		})
	}
	return rows
}
