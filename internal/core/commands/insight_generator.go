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
// final analytical step of the pipeline: insight generation.
//
// Logic Flow:
// The InsightGenerator works from the own-side videos only; competitor data
// feeds it indirectly through the gap list. Zero own-side videos fail the run
// with an InsufficientDataError.
//
//  1. Compute mean engagement over the own videos.
//  2. Bucket each own video: high performer when its score strictly exceeds
//     the mean, low performer when it falls below 0.6x the mean. A video may
//     be neither, and when the mean is positive it can never be both.
//  3. Emit one qualitative insight per non-empty bucket plus a constant
//     consistency insight.
//  4. Emit recommendations gated by thresholds: mean below 0.03, at least
//     three high performers, at least two low performers.
//  5. Rate growth against the previous run's own-side mean when one exists.
//  6. Emit goal-conditioned tips; an unrecognized or absent goal produces no
//     tips and no error.
package commands

import (
	"fmt"
	"sort"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// hookThreshold is the mean engagement below which hook-strength advice is
// emitted, both as a recommendation and as a grow_engagement goal tip.
const hookThreshold = 0.03

// RateGrowth buckets the change in own-side mean engagement between
// consecutive runs. Band boundaries are inclusive on the lower side.
//
// Inputs:
//   - currentMean: This run's own-side mean engagement.
//   - previousMean: The prior run's own-side mean; nil when no prior run exists.
//
// Outputs:
//   - *float64: The delta (current minus previous), nil without a baseline.
//   - model.GrowthRating: The qualitative band.
func RateGrowth(currentMean float64, previousMean *float64) (*float64, model.GrowthRating) {
	if previousMean == nil {
		return nil, model.GrowthNoBaseline
	}
	delta := currentMean - *previousMean
	switch {
	case delta >= 0.005:
		return &delta, model.GrowthStrong
	case delta >= 0.001:
		return &delta, model.GrowthPositive
	case delta > -0.001:
		return &delta, model.GrowthFlat
	default:
		return &delta, model.GrowthNeedsImprovement
	}
}

// GenerateInsights builds the run's InsightReport from the own-side scored
// videos, the ranked gap list, the previous run's baseline, and the user's
// stated goal.
//
// Inputs:
//   - videos: The run's full ScoredVideo working set, both sources mixed.
//   - gaps: The GapAnalyzer's ranked output.
//   - previousOwnMean: The prior run's own-side mean engagement, or nil.
//   - goal: The user's stated goal; may be empty.
//
// Outputs:
//   - model.InsightReport: The complete report.
//   - error: An InsufficientDataError when the run has zero own-side videos.
func GenerateInsights(videos []model.ScoredVideo, gaps []model.GapEntry, previousOwnMean *float64, goal model.Goal) (model.InsightReport, error) {
	own := filterBySource(videos, model.SourceOwn)
	if len(own) == 0 {
		return model.InsightReport{}, &model.InsufficientDataError{Reason: "no own-channel videos in this run; competitor data alone cannot drive insights"}
	}

	var sum float64
	for _, v := range own {
		sum += v.EngagementScore
	}
	mean := sum / float64(len(own))

	var high, low []model.ScoredVideo
	for _, v := range own {
		if v.EngagementScore > mean {
			high = append(high, v)
		}
		if v.EngagementScore < 0.6*mean {
			low = append(low, v)
		}
	}
	sort.SliceStable(high, func(i, j int) bool { return high[i].EngagementScore > high[j].EngagementScore })
	sort.SliceStable(low, func(i, j int) bool { return low[i].EngagementScore < low[j].EngagementScore })

	report := model.InsightReport{
		AverageEngagement:    mean,
		HighPerformingVideos: highlights(high, 3),
		LowPerformingVideos:  highlights(low, 2),
	}

	if len(high) > 0 {
		report.Insights = append(report.Insights, "Videos with concise titles and clear topics perform better.")
	}
	if len(low) > 0 {
		report.Insights = append(report.Insights, "Some videos have significantly lower engagement. Avoid generic titles and weak hooks.")
	}
	report.Insights = append(report.Insights, "Maintaining consistency in topic and format improves engagement over time.")

	if mean < hookThreshold {
		report.Recommendations = append(report.Recommendations, "Focus on stronger hooks in the first 5 seconds of videos.")
	}
	if len(high) >= 3 {
		report.Recommendations = append(report.Recommendations, "Double down on topics similar to your top-performing videos.")
	}
	if len(low) >= 2 {
		report.Recommendations = append(report.Recommendations, "Rework or avoid content styles seen in low-performing videos.")
	}

	report.GrowthDelta, report.GrowthRating = RateGrowth(mean, previousOwnMean)
	report.GoalTips = goalTips(goal, mean, gaps)
	return report, nil
}

// goalTips emits the advice conditioned on the user's stated goal. The gap
// list arrives ranked, so its first entry is the strongest uncovered topic.
func goalTips(goal model.Goal, mean float64, gaps []model.GapEntry) []string {
	var tips []string
	switch goal {
	case model.GoalGrowEngagement:
		if mean < hookThreshold {
			tips = append(tips, "Strengthen your hooks: open every video with the payoff in the first 5 seconds.")
		}
		if len(gaps) > 0 {
			tips = append(tips, fmt.Sprintf("Try content on '%s' - competitors see strong engagement there and you have not covered it yet.", gaps[0].Topic))
		}
	case model.GoalBeatCompetitors:
		if len(gaps) > 0 {
			tips = append(tips, fmt.Sprintf("Target the gap topic '%s' where competitors currently lead without competition from you.", gaps[0].Topic))
		}
	case model.GoalUnderstandWhatWorks:
		tips = append(tips, "Replicate the format of your top-performing topics and compare results across runs.")
	}
	return tips
}

func highlights(videos []model.ScoredVideo, limit int) []model.VideoHighlight {
	if len(videos) > limit {
		videos = videos[:limit]
	}
	out := make([]model.VideoHighlight, 0, len(videos))
	for _, v := range videos {
		out = append(out, model.VideoHighlight{Title: v.Title, EngagementScore: v.EngagementScore})
	}
	return out
}

// InsightGenerator is the command that produces the run's final insight
// report.
type InsightGenerator struct {
	cor.BaseCommand
}

// NewInsightGenerator is the constructor for the InsightGenerator command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *InsightGenerator: A pointer to the newly instantiated command.
func NewInsightGenerator(name string) *InsightGenerator {
	out := InsightGenerator{BaseCommand: *cor.NewBaseCommand(name)}
	out.InputParamName = ScoredVideosParam
	return &out
}

// Execute generates the insight report and publishes it under
// `InsightReportParam`. A run with no own-side videos fails here, before any
// snapshot is assembled.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *InsightGenerator) Execute(context cor.Context) {
	scored := context.Get(s.GetInputParam()).([]model.ScoredVideo)
	req := context.Get(AnalysisRequestParam).(*model.AnalysisRequest)
	gaps, _ := context.Get(TopicGapsParam).([]model.GapEntry)

	report, err := GenerateInsights(scored, gaps, req.PreviousOwnMean, req.Goal)
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), err)
		return
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(InsightReportParam, report)
	context.Add(cor.CtxOut, report)
}
