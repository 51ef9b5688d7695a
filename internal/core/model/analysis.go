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
// This file holds the analysis-run structures: the request that feeds the
// workflow, the per-stage result types (topic summaries, trends, gaps, style
// patterns, insights), and the AnalysisSnapshot that bundles everything the
// pipeline produced for one run.
//
// All of these are derived entities. They are created fresh per run and the
// engine holds no state between runs; the only cross-run value is the previous
// run's own-side mean engagement, which the caller fetches up front and passes
// in on the AnalysisRequest.
package model

import "time"

// Goal is the user's stated objective for a channel analysis. It gates which
// tips the insight generator emits; an empty or unrecognized goal simply
// produces no tips.
type Goal string

const (
	GoalGrowEngagement      Goal = "grow_engagement"
	GoalBeatCompetitors     Goal = "beat_competitors"
	GoalUnderstandWhatWorks Goal = "understand_what_works"
)

// Trend classifies a topic's engagement trajectory across month buckets.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// GrowthRating is the qualitative bucket derived from the change in own-side
// mean engagement between consecutive analysis runs.
type GrowthRating string

const (
	GrowthNoBaseline       GrowthRating = "no baseline"
	GrowthStrong           GrowthRating = "strong growth"
	GrowthPositive         GrowthRating = "positive growth"
	GrowthFlat             GrowthRating = "flat"
	GrowthNeedsImprovement GrowthRating = "needs improvement"
)

// AnalysisOptions are the tunables for one run of the topic modeler.
type AnalysisOptions struct {
	NumTopics       int     `json:"num_topics" toml:"num_topics"`   // K, the number of clusters to partition videos into.
	MinDocFrequency int     `json:"min_df" toml:"min_df"`           // Terms in fewer documents than this are dropped from the vocabulary.
	MaxDocFraction  float64 `json:"max_df" toml:"max_df"`           // Terms in more than this fraction of documents are dropped.
	Seed            int64   `json:"random_seed" toml:"random_seed"` // Clustering seed; fixed so identical input reproduces identical output.
}

// DefaultAnalysisOptions returns the canonical defaults: five topics, terms
// kept when they appear in at least two documents and at most 90% of them,
// and the fixed clustering seed.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		NumTopics:       5,
		MinDocFrequency: 2,
		MaxDocFraction:  0.9,
		Seed:            42,
	}
}

// Normalize fills any zero-valued option with its default so partially
// specified request overrides behave predictably.
func (o AnalysisOptions) Normalize() AnalysisOptions {
	d := DefaultAnalysisOptions()
	if o.NumTopics <= 0 {
		o.NumTopics = d.NumTopics
	}
	if o.MinDocFrequency <= 0 {
		o.MinDocFrequency = d.MinDocFrequency
	}
	if o.MaxDocFraction <= 0 {
		o.MaxDocFraction = d.MaxDocFraction
	}
	if o.Seed == 0 {
		o.Seed = d.Seed
	}
	return o
}

// AnalysisRequest is the complete, self-contained input for one run of the
// analysis workflow. The previous run's baseline is resolved by the caller
// before the workflow starts; the pipeline never performs its own lookups
// against external state mid-computation.
type AnalysisRequest struct {
	RunID           string          // Unique identifier for this run.
	UserID          string          // The authenticated analyst the run belongs to.
	ChannelURL      string          // The own-channel URL the videos were fetched for.
	Goal            Goal            // The user's stated goal; may be empty.
	Videos          []VideoRecord   // All own and competitor videos for this run.
	PreviousOwnMean *float64        // Own-side mean engagement of the prior run; nil when no prior run exists.
	Options         AnalysisOptions // Topic-model tunables.
}

// TopicSummary aggregates the scored videos of one topic, restricted to one
// source or combined across both.
type TopicSummary struct {
	Topic         string  `json:"topic" bigquery:"topic"`
	VideoCount    int     `json:"video_count" bigquery:"video_count"`
	AvgViews      float64 `json:"avg_views" bigquery:"avg_views"`
	AvgLikes      float64 `json:"avg_likes" bigquery:"avg_likes"`
	AvgComments   float64 `json:"avg_comments" bigquery:"avg_comments"`
	AvgEngagement float64 `json:"avg_engagement" bigquery:"avg_engagement"`
}

// TopicSummarySet holds the per-topic summaries partitioned by source.
type TopicSummarySet struct {
	Own        []TopicSummary `json:"own"`
	Competitor []TopicSummary `json:"competitor"`
	Combined   []TopicSummary `json:"combined"`
}

// TrendPoint is the mean engagement of one topic in one month bucket.
// Within a topic the points are strictly ordered by month with no duplicates.
type TrendPoint struct {
	Topic         string  `json:"topic"`
	Month         string  `json:"month"` // Year-month, formatted "2006-01".
	AvgEngagement float64 `json:"avg_engagement"`
}

// TopicTrend is the classified trajectory of one topic, with an optional
// posting suggestion for topics trending up or down.
type TopicTrend struct {
	Topic            string   `json:"topic"`
	Trend            Trend    `json:"trend"`
	LatestEngagement *float64 `json:"latest_engagement"` // nil when the topic has no month buckets.
	Suggestion       string   `json:"suggestion,omitempty"`
}

// GapEntry is a topic competitors post about that the own channel does not,
// summarized from the competitor side only.
type GapEntry struct {
	Topic         string  `json:"topic" bigquery:"topic"`
	VideoCount    int     `json:"video_count" bigquery:"video_count"`
	AvgViews      float64 `json:"avg_views" bigquery:"avg_views"`
	AvgEngagement float64 `json:"avg_engagement" bigquery:"avg_engagement"`
}

// HashtagPattern is the usage count and mean engagement of one hashtag within
// one topic.
type HashtagPattern struct {
	Topic         string  `json:"topic"`
	Hashtag       string  `json:"hashtag"`
	UsageCount    int     `json:"usage_count"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// CaptionStyle summarizes title construction per topic: how long titles run
// and how often they pose a question.
type CaptionStyle struct {
	Topic            string  `json:"topic"`
	AvgCaptionLength float64 `json:"avg_caption_length"` // Mean word count of titles.
	QuestionRatio    float64 `json:"question_ratio"`     // Fraction of titles containing a question mark.
	AvgEngagement    float64 `json:"avg_engagement"`
}

// InteractionPattern is the per-topic mean of (comments+1)/(views+1), a
// duration-independent engagement-density proxy. No watch-time data is
// available, so this is an approximation, not a true watch-time signal.
type InteractionPattern struct {
	Topic               string  `json:"topic"`
	AvgInteractionRatio float64 `json:"avg_interaction_ratio"`
	AvgEngagement       float64 `json:"avg_engagement"`
}

// StylePatterns bundles the three independent style sub-analyses.
type StylePatterns struct {
	Hashtags     []HashtagPattern     `json:"hashtags"`
	Captions     []CaptionStyle       `json:"captions"`
	Interactions []InteractionPattern `json:"interactions"`
}

// VideoHighlight is a compact reference to a notable video in the insight
// report.
type VideoHighlight struct {
	Title           string  `json:"title"`
	EngagementScore float64 `json:"engagement_rate"`
}

// InsightReport is the final recommendation set for one run: performer
// buckets, qualitative insights, threshold-gated recommendations, the growth
// rating against the previous run, and goal-conditioned tips.
type InsightReport struct {
	AverageEngagement    float64          `json:"average_engagement"`
	HighPerformingVideos []VideoHighlight `json:"high_performing_videos"` // At most three, best first.
	LowPerformingVideos  []VideoHighlight `json:"low_performing_videos"`  // At most two, worst first.
	Insights             []string         `json:"insights"`
	Recommendations      []string         `json:"recommendations"`
	GoalTips             []string         `json:"goal_tips"`
	GrowthDelta          *float64         `json:"growth_delta"` // nil when no previous run exists.
	GrowthRating         GrowthRating     `json:"growth_rating"`
}

// AnalysisSnapshot is the full output of one analysis run. A run either
// produces a complete snapshot or fails with a typed error; no partial
// snapshot is ever returned. The snapshot's own-side mean engagement becomes
// the comparison baseline for the next run.
type AnalysisSnapshot struct {
	RunID                string          `json:"analysis_id"`
	UserID               string          `json:"user_id"`
	ChannelURL           string          `json:"channel_url"`
	AnalyzedAt           time.Time       `json:"analyzed_at"`
	TotalVideos          int             `json:"total_videos"`
	OwnAverageEngagement float64         `json:"own_avg_engagement"`
	Topics               TopicSummarySet `json:"topics"`
	Trends               []TopicTrend    `json:"trends"`
	Gaps                 []GapEntry      `json:"competitor_gaps"`
	Style                StylePatterns   `json:"style_patterns"`
	Insights             InsightReport   `json:"insights"`
}
