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
// trend analysis step of the analysis pipeline.
//
// Logic Flow:
// The TrendAnalyzer buckets the run's scored videos by topic and publication
// month, averages engagement within each bucket, and classifies each topic's
// trajectory from its two most recent months:
//
//   - No month buckets: trend is "stable" and latest engagement is nil.
//   - One bucket: trend is "stable" with that bucket's value as latest.
//   - Two or more buckets: "up" when the last strictly exceeds the previous,
//     otherwise "down". A tie classifies as "down"; this mirrors the product's
//     documented behavior and is preserved deliberately.
//
// Topics trending up or down also receive a one-line posting suggestion;
// stable topics produce none.
package commands

import (
	"fmt"
	"sort"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// BuildTrendPoints groups the scored videos by topic and year-month and
// returns the mean engagement per bucket, ordered by topic then month
// ascending. Videos without a topic assignment are excluded.
func BuildTrendPoints(videos []model.ScoredVideo) []model.TrendPoint {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]map[string]*bucket)
	for _, v := range videos {
		if v.Topic == "" {
			continue
		}
		months, ok := buckets[v.Topic]
		if !ok {
			months = make(map[string]*bucket)
			buckets[v.Topic] = months
		}
		b, ok := months[v.Month()]
		if !ok {
			b = &bucket{}
			months[v.Month()] = b
		}
		b.sum += v.EngagementScore
		b.count++
	}

	var points []model.TrendPoint
	for topic, months := range buckets {
		for month, b := range months {
			points = append(points, model.TrendPoint{
				Topic:         topic,
				Month:         month,
				AvgEngagement: b.sum / float64(b.count),
			})
		}
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Topic != points[j].Topic {
			return points[i].Topic < points[j].Topic
		}
		return points[i].Month < points[j].Month
	})
	return points
}

// ClassifyTrends derives one TopicTrend per topic from its month-ordered
// TrendPoint sequence. The input must be sorted by topic then month, as
// BuildTrendPoints produces it; the output is ordered by topic.
func ClassifyTrends(points []model.TrendPoint) []model.TopicTrend {
	byTopic := make(map[string][]model.TrendPoint)
	var order []string
	for _, p := range points {
		if _, ok := byTopic[p.Topic]; !ok {
			order = append(order, p.Topic)
		}
		byTopic[p.Topic] = append(byTopic[p.Topic], p)
	}

	trends := make([]model.TopicTrend, 0, len(order))
	for _, topic := range order {
		seq := byTopic[topic]
		t := model.TopicTrend{Topic: topic, Trend: model.TrendStable}
		if len(seq) >= 1 {
			latest := seq[len(seq)-1].AvgEngagement
			t.LatestEngagement = &latest
		}
		if len(seq) >= 2 {
			last := seq[len(seq)-1].AvgEngagement
			prev := seq[len(seq)-2].AvgEngagement
			if last > prev {
				t.Trend = model.TrendUp
			} else {
				t.Trend = model.TrendDown
			}
		}
		switch t.Trend {
		case model.TrendUp:
			t.Suggestion = fmt.Sprintf("Post more content on '%s' - engagement is increasing.", topic)
		case model.TrendDown:
			t.Suggestion = fmt.Sprintf("Reduce posting on '%s' - engagement is declining.", topic)
		}
		trends = append(trends, t)
	}
	return trends
}

// TrendAnalyzer is the command that classifies each topic's engagement
// trajectory across month buckets.
type TrendAnalyzer struct {
	cor.BaseCommand
}

// NewTrendAnalyzer is the constructor for the TrendAnalyzer command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *TrendAnalyzer: A pointer to the newly instantiated command.
func NewTrendAnalyzer(name string) *TrendAnalyzer {
	out := TrendAnalyzer{BaseCommand: *cor.NewBaseCommand(name)}
	out.InputParamName = ScoredVideosParam
	return &out
}

// Execute computes the per-topic trend list and publishes it under
// `TopicTrendsParam`.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *TrendAnalyzer) Execute(context cor.Context) {
	scored := context.Get(s.GetInputParam()).([]model.ScoredVideo)

	trends := ClassifyTrends(BuildTrendPoints(scored))

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(TopicTrendsParam, trends)
	context.Add(cor.CtxOut, trends)
}
