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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the channel analysis workflow.
package workflow

import (
	"cloud.google.com/go/bigquery"
	"github.com/jaycherian/gcp-go-social-analytics/internal/cloud"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/commands"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// AnalysisWorkflow orchestrates the full channel analysis for one request.
// It is structured as a Chain of Responsibility (cor.Chain) that executes a
// sequence of commands covering normalization, topic modeling, scoring, the
// four analytical reductions, snapshot assembly, and (when a BigQuery client
// is supplied) persistence.
//
// The workflow is a pure function of the AnalysisRequest it is given: every
// input, including the previous run's baseline, arrives on the request, and
// the chain performs no external lookups mid-computation. The chain stops at
// the first failing command, so a run either yields a complete snapshot or a
// typed error, never a partial result.
type AnalysisWorkflow struct {
	cor.BaseCommand
	config         *cloud.Config
	bigqueryClient *bigquery.Client
	chain          cor.Chain // The underlying chain of commands to be executed.
}

// Execute runs the entire analysis workflow by invoking the underlying chain.
//
// Inputs:
//   - context: The chain of responsibility context for this execution.
func (w *AnalysisWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Run is the typed entry point used by the API layer. It seeds a fresh chain
// context with the request, executes the workflow, and returns either the
// completed snapshot or the first error the chain recorded.
//
// Inputs:
//   - ctx: The caller's Go context, carrying deadlines and trace state.
//   - request: The complete analysis request.
//
// Outputs:
//   - *model.AnalysisSnapshot: The completed snapshot on success.
//   - error: The first error recorded by the chain.
func (w *AnalysisWorkflow) Run(ctx cor.Context, request *model.AnalysisRequest) (*model.AnalysisSnapshot, error) {
	ctx.Add(cor.CtxIn, request)
	w.Execute(ctx)
	if ctx.HasErrors() {
		for _, err := range ctx.GetErrors() {
			return nil, err
		}
	}
	snapshot := ctx.Get(commands.SnapshotParam).(*model.AnalysisSnapshot)
	return snapshot, nil
}

// initializeChain builds the sequence of commands that make up this
// workflow. Each command is an atomic unit of work; the scored video set
// produced by the first three stages is shared with the analytical stages
// through a named context parameter rather than the piped slot.
func (w *AnalysisWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Normalize every video's title and description into the
	// document corpus for topic modeling. This also stashes the request in
	// the context for the later commands.
	out.AddCommand(commands.NewTextNormalizer("normalize-video-text"))

	// Step 2: Cluster the corpus into topics with seeded TF-IDF k-means and
	// produce one label per video.
	out.AddCommand(commands.NewTopicModeler("extract-video-topics"))

	// Step 3: Join the labels back onto the raw videos and compute each
	// video's engagement score. The resulting working set is shared with
	// every command below.
	out.AddCommand(commands.NewEngagementScorer("score-video-engagement"))

	// Step 4: Reduce the working set into the per-topic summary tables,
	// split by own, competitor, and combined.
	out.AddCommand(commands.NewTopicAggregator("aggregate-topic-summaries"))

	// Step 5: Classify each topic's month-over-month engagement trajectory.
	out.AddCommand(commands.NewTrendAnalyzer("analyze-topic-trends"))

	// Step 6: Find the competitor topics the channel does not cover,
	// ranked by competitor engagement.
	out.AddCommand(commands.NewGapAnalyzer("analyze-competitor-gaps"))

	// Step 7: Summarize posting style (hashtags, captions, interaction
	// density) per topic.
	out.AddCommand(commands.NewStylePatternAnalyzer("analyze-style-patterns"))

	// Step 8: Produce the insight report: performer buckets, qualitative
	// insights, threshold-gated recommendations, growth rating, and
	// goal-conditioned tips. This is where a run without own-side videos
	// fails.
	out.AddCommand(commands.NewInsightGenerator("generate-insights"))

	// Step 9: Bundle everything into the immutable run snapshot.
	out.AddCommand(commands.NewSnapshotBuilder("assemble-snapshot"))

	// Step 10: Persist the run to BigQuery. Skipped entirely when no client
	// is configured, which is how the pure in-memory path (tests, the CSV
	// quick scan service) runs the same workflow.
	if w.bigqueryClient != nil {
		out.AddCommand(commands.NewSnapshotPersistToBigQuery(
			"write-run-to-bigquery",
			w.bigqueryClient,
			w.config.BigQueryDataSource.DatasetName,
			w.config.BigQueryDataSource.RunsTable,
			w.config.BigQueryDataSource.VideosTable))
	}

	w.chain = out
}

// NewAnalysisWorkflow is the constructor for the AnalysisWorkflow. It wires
// the command chain from the supplied configuration and clients.
//
// Inputs:
//   - config: The application's overall configuration.
//   - bigqueryClient: The BigQuery client for run persistence; nil disables
//     the persistence step.
//
// Outputs:
//   - *AnalysisWorkflow: A pointer to a newly created and fully initialized workflow.
func NewAnalysisWorkflow(config *cloud.Config, bigqueryClient *bigquery.Client) *AnalysisWorkflow {
	pipeline := &AnalysisWorkflow{
		BaseCommand:    *cor.NewBaseCommand("channel-analysis-pipeline"),
		config:         config,
		bigqueryClient: bigqueryClient,
	}
	pipeline.initializeChain()
	return pipeline
}
