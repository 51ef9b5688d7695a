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
// aggregation step of the analysis pipeline along with the generic grouping
// machinery it is built on.
//
// Logic Flow:
// The TopicAggregator reduces the run's ScoredVideo working set into the
// per-topic summary tables: one restricted to the user's own videos, one to
// competitor videos, and one combined across both. Each summary row carries
// the group's video count and the means of views, likes, comments, and
// engagement. Groups are never empty by construction (a key with no members
// simply produces no row), so aggregation can never divide by zero.
package commands

import (
	"fmt"
	"sort"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// GroupKeyFunc derives the grouping key for one scored video. Returning an
// empty key excludes the video from the aggregation entirely; this is how
// videos without a valid topic assignment stay out of topic tables.
type GroupKeyFunc func(v model.ScoredVideo) string

// GroupKeyByName resolves one of the named grouping strategies.
//
// Inputs:
//   - name: One of "topic", "month", "source", or "topic_month".
//
// Outputs:
//   - GroupKeyFunc: The key function for the named strategy.
//   - error: A ConfigurationError for an unrecognized name.
func GroupKeyByName(name string) (GroupKeyFunc, error) {
	switch name {
	case "topic":
		return func(v model.ScoredVideo) string { return v.Topic }, nil
	case "month":
		return func(v model.ScoredVideo) string { return v.Month() }, nil
	case "source":
		return func(v model.ScoredVideo) string { return string(v.Source) }, nil
	case "topic_month":
		return func(v model.ScoredVideo) string {
			if v.Topic == "" {
				return ""
			}
			return v.Topic + "|" + v.Month()
		}, nil
	default:
		return nil, &model.ConfigurationError{Reason: fmt.Sprintf("unknown aggregation key %q", name)}
	}
}

// Aggregate groups the scored videos by the supplied key function and
// computes one summary row per non-empty group: the member count and the
// means of views, likes, comments, and engagement. Rows come back sorted by
// key so downstream output is stable.
func Aggregate(videos []model.ScoredVideo, key GroupKeyFunc) []model.TopicSummary {
	type accumulator struct {
		count                            int
		views, likes, comments, engaged float64
	}
	groups := make(map[string]*accumulator)
	for _, v := range videos {
		k := key(v)
		if k == "" {
			continue
		}
		acc, ok := groups[k]
		if !ok {
			acc = &accumulator{}
			groups[k] = acc
		}
		acc.count++
		acc.views += float64(v.Views)
		acc.likes += float64(v.Likes)
		acc.comments += float64(v.Comments)
		acc.engaged += v.EngagementScore
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]model.TopicSummary, 0, len(keys))
	for _, k := range keys {
		acc := groups[k]
		n := float64(acc.count)
		rows = append(rows, model.TopicSummary{
			Topic:         k,
			VideoCount:    acc.count,
			AvgViews:      acc.views / n,
			AvgLikes:      acc.likes / n,
			AvgComments:   acc.comments / n,
			AvgEngagement: acc.engaged / n,
		})
	}
	return rows
}

// filterBySource returns the subset of videos with the given source tag.
func filterBySource(videos []model.ScoredVideo, source model.Source) []model.ScoredVideo {
	var out []model.ScoredVideo
	for _, v := range videos {
		if v.Source == source {
			out = append(out, v)
		}
	}
	return out
}

// TopicAggregator is the command that builds the own, competitor, and
// combined per-topic summary tables for the run.
type TopicAggregator struct {
	cor.BaseCommand
}

// NewTopicAggregator is the constructor for the TopicAggregator command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *TopicAggregator: A pointer to the newly instantiated command.
func NewTopicAggregator(name string) *TopicAggregator {
	out := TopicAggregator{BaseCommand: *cor.NewBaseCommand(name)}
	out.InputParamName = ScoredVideosParam
	return &out
}

// Execute aggregates the scored videos into the three per-topic summary
// tables and publishes the set under `TopicSummariesParam`.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *TopicAggregator) Execute(context cor.Context) {
	scored := context.Get(s.GetInputParam()).([]model.ScoredVideo)

	byTopic, err := GroupKeyByName("topic")
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), err)
		return
	}

	set := model.TopicSummarySet{
		Own:        Aggregate(filterBySource(scored, model.SourceOwn), byTopic),
		Competitor: Aggregate(filterBySource(scored, model.SourceCompetitor), byTopic),
		Combined:   Aggregate(scored, byTopic),
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(TopicSummariesParam, set)
	context.Add(cor.CtxOut, set)
}
