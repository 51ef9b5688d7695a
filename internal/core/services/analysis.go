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

// Package services contains the business logic for interacting with data sources.
// This file defines the AnalysisService, the read side of the BigQuery run
// store. Writes happen inside the analysis workflow's persistence command;
// everything the API layer needs to read back (the growth baseline, a stored
// run, the run history) goes through here.
package services

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// AnalysisService encapsulates the client and table configuration needed to
// read stored analysis runs from BigQuery.
type AnalysisService struct {
	BigqueryClient *bigquery.Client // Client for interacting with Google BigQuery.
	DatasetName    string           // The name of the BigQuery dataset.
	RunsTable      string           // The table holding one row per analysis run.
	VideosTable    string           // The table holding one row per scored video.
}

// fqRunsTable returns the fully qualified, backtick-safe name of the runs
// table for injection into the query templates.
func (s *AnalysisService) fqRunsTable() string {
	return strings.Replace(s.BigqueryClient.Dataset(s.DatasetName).Table(s.RunsTable).FullyQualifiedName(), ":", ".", -1)
}

// PreviousOwnMean returns the own-side mean engagement of the user's most
// recent run, or nil when the user has no prior runs. The caller passes the
// result into the analysis workflow as the growth baseline.
//
// Inputs:
//   - ctx: The context for the request.
//   - userID: The identity whose history is consulted.
//
// Outputs:
//   - *float64: The baseline, or nil when no prior run exists.
//   - error: A query or iteration failure.
func (s *AnalysisService) PreviousOwnMean(ctx context.Context, userID string) (*float64, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryPreviousOwnMean, s.fqRunsTable()))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline from BigQuery: %w", err)
	}
	var row struct {
		OwnAverageEngagement float64 `bigquery:"own_avg_engagement"`
	}
	err = itr.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to iterate baseline results: %w", err)
	}
	return &row.OwnAverageEngagement, nil
}

// GetRun retrieves one stored run, scoped to its owner, and reconstructs the
// full snapshot from the serialized payload.
//
// Inputs:
//   - ctx: The context for the request.
//   - runID: The run to fetch.
//   - userID: The requesting identity; runs owned by other users are invisible.
//
// Outputs:
//   - *model.AnalysisSnapshot: The reconstructed snapshot, or nil when no such run exists.
//   - error: A query, iteration, or deserialization failure.
func (s *AnalysisService) GetRun(ctx context.Context, runID string, userID string) (*model.AnalysisSnapshot, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryFindRunById, s.fqRunsTable()))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
		{Name: "user_id", Value: userID},
	}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read run from BigQuery: %w", err)
	}
	var row model.AnalysisRunRow
	err = itr.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to iterate run results: %w", err)
	}
	return row.Snapshot()
}

// Latest retrieves the user's most recent run with its full snapshot, or nil
// when the user has none.
func (s *AnalysisService) Latest(ctx context.Context, userID string) (*model.AnalysisSnapshot, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryLatestRun, s.fqRunsTable()))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read latest run from BigQuery: %w", err)
	}
	var row model.AnalysisRunRow
	err = itr.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to iterate latest run results: %w", err)
	}
	return row.Snapshot()
}

// History lists the user's runs newest first, scalars only.
//
// Inputs:
//   - ctx: The context for the request.
//   - userID: The identity whose history is listed.
//   - limit: The maximum number of rows to return.
//
// Outputs:
//   - []model.AnalysisRunRow: The history rows; SnapshotJSON is empty on each.
//   - error: A query or iteration failure.
func (s *AnalysisService) History(ctx context.Context, userID string, limit int) (out []model.AnalysisRunRow, err error) {
	out = make([]model.AnalysisRunRow, 0)
	if limit <= 0 {
		limit = 20
	}
	q := s.BigqueryClient.Query(fmt.Sprintf(QryRunHistory, s.fqRunsTable()))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "limit", Value: limit},
	}
	itr, err := q.Read(ctx)
	if err != nil {
		return out, fmt.Errorf("failed to read run history from BigQuery: %w", err)
	}
	for {
		var row model.AnalysisRunRow
		err := itr.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return out, fmt.Errorf("failed to iterate run history: %w", err)
		}
		out = append(out, row)
	}
	return out, nil
}
