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
// engagement scoring step of the analysis pipeline.
//
// Logic Flow:
// The EngagementScorer joins the per-video topic labels produced by the
// TopicModeler back onto the raw videos and computes each video's engagement
// score. The resulting ScoredVideo slice is the working set for every
// analysis command further down the chain, so in addition to being piped
// forward it is stashed under `ScoredVideosParam`.
package commands

import (
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// EngagementScore computes (likes + 2*comments) / max(views, 1). Comments are
// weighted double to reflect deeper engagement; the view floor of 1 guards
// division by zero so a zero-view video is scored rather than discarded.
//
// Inputs:
//   - views, likes, comments: The video's raw counters.
//
// Outputs:
//   - float64: The engagement score.
func EngagementScore(views, likes, comments int64) float64 {
	if views < 1 {
		views = 1
	}
	return float64(likes+2*comments) / float64(views)
}

// ScoreVideos joins topic labels onto the raw video records and computes each
// video's engagement score. The labels slice must be index-aligned with the
// videos slice.
func ScoreVideos(videos []model.VideoRecord, labels []string) []model.ScoredVideo {
	scored := make([]model.ScoredVideo, len(videos))
	for i, v := range videos {
		scored[i] = model.ScoredVideo{
			VideoRecord:     v,
			Topic:           labels[i],
			EngagementScore: EngagementScore(v.Views, v.Likes, v.Comments),
		}
	}
	return scored
}

// EngagementScorer is the command that turns raw videos plus topic labels
// into the run's ScoredVideo working set.
type EngagementScorer struct {
	cor.BaseCommand
}

// NewEngagementScorer is the constructor for the EngagementScorer command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *EngagementScorer: A pointer to the newly instantiated command.
func NewEngagementScorer(name string) *EngagementScorer {
	return &EngagementScorer{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute scores every video and publishes the ScoredVideo slice both as the
// piped output and under the shared `ScoredVideosParam` key.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *EngagementScorer) Execute(context cor.Context) {
	labels := context.Get(s.GetInputParam()).([]string)
	req := context.Get(AnalysisRequestParam).(*model.AnalysisRequest)

	scored := ScoreVideos(req.Videos, labels)

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ScoredVideosParam, scored)
	context.Add(cor.CtxOut, scored)
}
