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
// competitor gap analysis step of the analysis pipeline.
//
// Logic Flow:
// The GapAnalyzer computes the set difference between the topics competitors
// post about and the topics the analyzed channel posts about. It is a pure
// filter: competitor videos belonging to topics the channel already covers
// are excluded entirely, not down-weighted. The surviving gap topics are
// summarized from the competitor side only and ranked descending by mean
// engagement, with ties broken by descending video count.
package commands

import (
	"sort"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// FindTopicGaps returns the competitor-side summary of every topic that
// appears among competitor videos but not among the channel's own videos.
//
// Inputs:
//   - videos: The run's full ScoredVideo working set, both sources mixed.
//
// Outputs:
//   - []model.GapEntry: Gap topics ranked descending by mean engagement,
//     ties broken by descending video count.
func FindTopicGaps(videos []model.ScoredVideo) []model.GapEntry {
	ownTopics := make(map[string]struct{})
	for _, v := range videos {
		if v.Source == model.SourceOwn && v.Topic != "" {
			ownTopics[v.Topic] = struct{}{}
		}
	}

	var gapVideos []model.ScoredVideo
	for _, v := range videos {
		if v.Source != model.SourceCompetitor || v.Topic == "" {
			continue
		}
		if _, covered := ownTopics[v.Topic]; covered {
			continue
		}
		gapVideos = append(gapVideos, v)
	}

	byTopic, _ := GroupKeyByName("topic")
	rows := Aggregate(gapVideos, byTopic)

	gaps := make([]model.GapEntry, 0, len(rows))
	for _, r := range rows {
		gaps = append(gaps, model.GapEntry{
			Topic:         r.Topic,
			VideoCount:    r.VideoCount,
			AvgViews:      r.AvgViews,
			AvgEngagement: r.AvgEngagement,
		})
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].AvgEngagement != gaps[j].AvgEngagement {
			return gaps[i].AvgEngagement > gaps[j].AvgEngagement
		}
		return gaps[i].VideoCount > gaps[j].VideoCount
	})
	return gaps
}

// GapAnalyzer is the command that finds competitor topics the analyzed
// channel does not cover.
type GapAnalyzer struct {
	cor.BaseCommand
}

// NewGapAnalyzer is the constructor for the GapAnalyzer command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *GapAnalyzer: A pointer to the newly instantiated command.
func NewGapAnalyzer(name string) *GapAnalyzer {
	out := GapAnalyzer{BaseCommand: *cor.NewBaseCommand(name)}
	out.InputParamName = ScoredVideosParam
	return &out
}

// Execute computes the ranked gap list and publishes it under
// `TopicGapsParam`.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *GapAnalyzer) Execute(context cor.Context) {
	scored := context.Get(s.GetInputParam()).([]model.ScoredVideo)

	gaps := FindTopicGaps(scored)

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(TopicGapsParam, gaps)
	context.Add(cor.CtxOut, gaps)
}
