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
// command that assembles the final analysis snapshot.
//
// Logic Flow:
// The SnapshotBuilder runs last among the analytical commands. It collects
// every artifact the earlier commands stashed in the context and bundles
// them into one immutable AnalysisSnapshot. Because the chain stops at the
// first error, reaching this command means every stage succeeded; the
// snapshot is therefore always complete, never partial.
package commands

import (
	"time"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// SnapshotBuilder is the command that bundles the run's artifacts into the
// final AnalysisSnapshot.
type SnapshotBuilder struct {
	cor.BaseCommand
	now func() time.Time // Clock, injectable for tests.
}

// NewSnapshotBuilder is the constructor for the SnapshotBuilder command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *SnapshotBuilder: A pointer to the newly instantiated command.
func NewSnapshotBuilder(name string) *SnapshotBuilder {
	out := SnapshotBuilder{BaseCommand: *cor.NewBaseCommand(name), now: time.Now}
	out.InputParamName = InsightReportParam
	return &out
}

// WithClock overrides the snapshot timestamp source. Tests use this to pin
// AnalyzedAt.
func (s *SnapshotBuilder) WithClock(now func() time.Time) *SnapshotBuilder {
	s.now = now
	return s
}

// Execute assembles the snapshot from the stashed stage outputs and pipes it
// forward under both `SnapshotParam` and the piped output slot.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *SnapshotBuilder) Execute(context cor.Context) {
	req := context.Get(AnalysisRequestParam).(*model.AnalysisRequest)
	insights := context.Get(InsightReportParam).(model.InsightReport)
	topics := context.Get(TopicSummariesParam).(model.TopicSummarySet)
	trends, _ := context.Get(TopicTrendsParam).([]model.TopicTrend)
	gaps, _ := context.Get(TopicGapsParam).([]model.GapEntry)
	style, _ := context.Get(StylePatternsParam).(model.StylePatterns)

	snapshot := &model.AnalysisSnapshot{
		RunID:                req.RunID,
		UserID:               req.UserID,
		ChannelURL:           req.ChannelURL,
		AnalyzedAt:           s.now().UTC(),
		TotalVideos:          len(req.Videos),
		OwnAverageEngagement: insights.AverageEngagement,
		Topics:               topics,
		Trends:               trends,
		Gaps:                 gaps,
		Style:                style,
		Insights:             insights,
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(SnapshotParam, snapshot)
	context.Add(cor.CtxOut, snapshot)
}
