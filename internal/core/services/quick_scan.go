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
// This file implements the CSV quick-scan path: an ad-hoc analysis of a flat
// table of posts that is entirely independent of the main analysis pipeline.
// It runs no topic model and stores nothing; engagement here is the plain sum
// of likes and comments, posts are grouped by the rule-based content
// classifier, and the output is top posts, per-category means, and
// best/worst-category recommendations.
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// QuickScanPost is one classified row of the scanned table.
type QuickScanPost struct {
	Caption    string  `json:"caption"`
	Likes      int64   `json:"likes"`
	Comments   int64   `json:"comments"`
	Engagement float64 `json:"engagement"` // likes + comments; the quick scan's simpler formula.
	Category   string  `json:"content_type"`
	Format     string  `json:"format"`
}

// QuickScanReport is the complete output of one quick scan.
type QuickScanReport struct {
	TotalPosts                  int                `json:"total_posts"`
	TopPosts                    []QuickScanPost    `json:"top_posts"` // At most three, best first.
	AverageEngagementByCategory map[string]float64 `json:"average_engagement_by_type"`
	BestCategory                string             `json:"best_category"`
	WorstCategory               string             `json:"worst_category"`
	Recommendations             []string           `json:"recommendations"`
	ImprovementInsight          string             `json:"improvement_insight"`
	GoalRecommendation          string             `json:"goal_recommendation"`
}

// QuickScanGoal enumerates the goals the quick scan's recommendation line
// understands. These are distinct from the main pipeline's analysis goals.
const (
	QuickScanGoalGrowFaster        = "grow_faster"
	QuickScanGoalImproveEngagement = "improve_engagement"
	QuickScanGoalBeConsistent      = "be_consistent"
)

// QuickScanService performs ad-hoc CSV analyses. It is stateless; one
// instance serves all requests.
type QuickScanService struct{}

// ScanCSV parses a CSV with caption, likes, and comments columns and returns
// the quick-scan report. Column order does not matter; missing required
// columns fail with a ConfigurationError. An empty table returns an explicit
// empty report rather than an error.
//
// Inputs:
//   - r: The CSV payload, header row first.
//   - goal: The user's stated goal; unrecognized values get the generic recommendation.
//
// Outputs:
//   - *QuickScanReport: The completed report.
//   - error: A parse failure or a ConfigurationError for a malformed header.
func (s *QuickScanService) ScanCSV(r io.Reader, goal string) (*QuickScanReport, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, &model.ConfigurationError{Reason: "csv payload is empty"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int)
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	captionCol, okCaption := columns["caption"]
	likesCol, okLikes := columns["likes"]
	commentsCol, okComments := columns["comments"]
	if !okCaption || !okLikes || !okComments {
		return nil, &model.ConfigurationError{Reason: "csv must contain caption, likes, comments columns"}
	}

	var posts []QuickScanPost
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		likes := parseCount(record[likesCol])
		comments := parseCount(record[commentsCol])
		category := ClassifyContent(record[captionCol])
		posts = append(posts, QuickScanPost{
			Caption:    record[captionCol],
			Likes:      likes,
			Comments:   comments,
			Engagement: float64(likes + comments),
			Category:   category.Primary,
			Format:     category.Format,
		})
	}

	return s.buildReport(posts, goal), nil
}

// buildReport computes the aggregate sections of the report from the
// classified posts. A post count of zero yields an explicit empty report.
func (s *QuickScanService) buildReport(posts []QuickScanPost, goal string) *QuickScanReport {
	report := &QuickScanReport{
		TotalPosts:                  len(posts),
		TopPosts:                    []QuickScanPost{},
		AverageEngagementByCategory: map[string]float64{},
	}
	if len(posts) == 0 {
		report.ImprovementInsight = "Not enough data to calculate improvement insights yet."
		report.GoalRecommendation = "Post more consistently and experiment with different content formats to understand what works best for your audience."
		return report
	}

	ranked := make([]QuickScanPost, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Engagement > ranked[j].Engagement })
	top := 3
	if top > len(ranked) {
		top = len(ranked)
	}
	report.TopPosts = ranked[:top]

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, p := range posts {
		sums[p.Category] += p.Engagement
		counts[p.Category]++
	}
	var categories []string
	for c := range sums {
		categories = append(categories, c)
		report.AverageEngagementByCategory[c] = sums[c] / float64(counts[c])
	}
	sort.Strings(categories)

	best, worst := categories[0], categories[0]
	for _, c := range categories {
		if report.AverageEngagementByCategory[c] > report.AverageEngagementByCategory[best] {
			best = c
		}
		if report.AverageEngagementByCategory[c] < report.AverageEngagementByCategory[worst] {
			worst = c
		}
	}
	report.BestCategory = best
	report.WorstCategory = worst

	report.Recommendations = []string{
		fmt.Sprintf("Post more %s content - it gets the highest engagement.", best),
		fmt.Sprintf("Reduce %s content - it performs the lowest.", worst),
	}
	report.ImprovementInsight = improvementInsight(report.AverageEngagementByCategory, best, worst)
	report.GoalRecommendation = goalRecommendation(goal, best, worst)
	return report
}

// improvementInsight expresses the spread between the best and worst
// categories as a percentage gap.
func improvementInsight(byCategory map[string]float64, best, worst string) string {
	bestValue := byCategory[best]
	worstValue := byCategory[worst]
	if bestValue == 0 {
		return "Not enough data to calculate improvement insights yet."
	}
	gap := (bestValue - worstValue) / bestValue * 100
	return fmt.Sprintf("%s content underperforms by %.2f%% compared to your best-performing content.", worst, gap)
}

// goalRecommendation tailors the single headline recommendation to the
// user's stated goal.
func goalRecommendation(goal, best, worst string) string {
	best = strings.ToLower(best)
	worst = strings.ToLower(worst)
	switch goal {
	case QuickScanGoalGrowFaster:
		return fmt.Sprintf("To support faster growth, increase the frequency of %s content and reduce %s posts.", best, worst)
	case QuickScanGoalImproveEngagement:
		return fmt.Sprintf("To improve engagement quality, focus more on %s content and limit %s formats.", best, worst)
	case QuickScanGoalBeConsistent:
		return fmt.Sprintf("To improve consistency, maintain a regular posting schedule while prioritizing %s content.", best)
	default:
		return "Continue experimenting with different content formats."
	}
}

func parseCount(in string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(in), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
