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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// command that persists a completed analysis run to BigQuery.
//
// Logic Flow:
// This command is the persistence tail of the analysis chain. It takes the
// assembled `model.AnalysisSnapshot`, flattens it into the runs-table row
// plus one videos-table row per scored video, and streams both through
// BigQuery inserters. The runs row carries the queryable scalars (owner,
// timestamp, own-side mean engagement) as columns, which is what the
// baseline and history queries read, and the complete snapshot as a JSON
// payload for exact reconstruction.
package commands

import (
	"fmt"
	"log/slog"

	"cloud.google.com/go/bigquery"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// SnapshotPersistToBigQuery is a command that saves a completed analysis run
// to the runs and videos tables.
type SnapshotPersistToBigQuery struct {
	cor.BaseCommand
	client      *bigquery.Client // The client for interacting with the BigQuery service.
	dataset     string           // The name of the BigQuery dataset.
	runsTable   string           // The runs table within the dataset.
	videosTable string           // The per-run videos table within the dataset.
}

// NewSnapshotPersistToBigQuery is the constructor for the
// SnapshotPersistToBigQuery command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - client: An initialized *bigquery.Client.
//   - dataset: The name of the BigQuery dataset.
//   - runsTable: The runs table name.
//   - videosTable: The videos table name.
//
// Outputs:
//   - *SnapshotPersistToBigQuery: A pointer to the newly instantiated command.
func NewSnapshotPersistToBigQuery(name string, client *bigquery.Client, dataset string, runsTable string, videosTable string) *SnapshotPersistToBigQuery {
	out := SnapshotPersistToBigQuery{BaseCommand: *cor.NewBaseCommand(name), client: client, dataset: dataset, runsTable: runsTable, videosTable: videosTable}
	out.InputParamName = SnapshotParam
	return &out
}

// Execute flattens the snapshot and streams it into BigQuery.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *SnapshotPersistToBigQuery) Execute(context cor.Context) {
	snapshot := context.Get(s.GetInputParam()).(*model.AnalysisSnapshot)
	scored, _ := context.Get(ScoredVideosParam).([]model.ScoredVideo)

	row, err := model.NewAnalysisRunRow(snapshot)
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("failed to serialize snapshot for run %s: %w", snapshot.RunID, err))
		return
	}

	inserter := s.client.Dataset(s.dataset).Table(s.runsTable).Inserter()
	if err := inserter.Put(context.GetContext(), row); err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("bigquery insert failed for run %s: %w", snapshot.RunID, err))
		return
	}

	if len(scored) > 0 {
		videoInserter := s.client.Dataset(s.dataset).Table(s.videosTable).Inserter()
		if err := videoInserter.Put(context.GetContext(), model.NewScoredVideoRows(snapshot.RunID, scored)); err != nil {
			s.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(s.GetName(), fmt.Errorf("bigquery video insert failed for run %s: %w", snapshot.RunID, err))
			return
		}
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, snapshot)
	slog.InfoContext(context.GetContext(), "persisted analysis run", "run_id", snapshot.RunID, "videos", len(scored))
}
