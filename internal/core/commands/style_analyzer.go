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
// style pattern analysis step of the analysis pipeline.
//
// Logic Flow:
// The StylePatternAnalyzer runs three independent sub-analyses over the
// scored videos, each keyed by topic:
//
//   - Hashtags: every `#token` substring in a description (lowercased, one
//     video may contribute several) is counted per (topic, hashtag) pair with
//     its mean engagement, sorted descending by mean engagement.
//   - Caption style: mean word count of titles and the fraction of titles
//     containing a question mark.
//   - Interaction proxy: mean of (comments+1)/(views+1), a duration-free
//     stand-in for engagement density since no watch-time data is available.
package commands

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

var hashtagPattern = regexp.MustCompile(`#\w+`)

// ExtractHashtags returns every `#token` substring of the text, lowercased.
// A video with repeated hashtags contributes each occurrence independently.
func ExtractHashtags(text string) []string {
	return hashtagPattern.FindAllString(strings.ToLower(text), -1)
}

// AnalyzeStylePatterns runs the three style sub-analyses over the scored
// videos. Videos without a topic assignment are excluded from all three.
//
// Inputs:
//   - videos: The run's full ScoredVideo working set.
//
// Outputs:
//   - model.StylePatterns: The hashtag, caption, and interaction summaries.
func AnalyzeStylePatterns(videos []model.ScoredVideo) model.StylePatterns {
	type hashtagAcc struct {
		count int
		sum   float64
	}
	type topicAcc struct {
		count        int
		captionWords float64
		questions    int
		interaction  float64
		engagement   float64
	}

	hashtags := make(map[string]map[string]*hashtagAcc)
	topics := make(map[string]*topicAcc)
	var topicOrder []string

	for _, v := range videos {
		if v.Topic == "" {
			continue
		}
		acc, ok := topics[v.Topic]
		if !ok {
			acc = &topicAcc{}
			topics[v.Topic] = acc
			topicOrder = append(topicOrder, v.Topic)
		}
		acc.count++
		acc.captionWords += float64(len(strings.Fields(v.Title)))
		if strings.Contains(v.Title, "?") {
			acc.questions++
		}
		acc.interaction += float64(v.Comments+1) / float64(v.Views+1)
		acc.engagement += v.EngagementScore

		for _, h := range ExtractHashtags(v.Description) {
			byTag, ok := hashtags[v.Topic]
			if !ok {
				byTag = make(map[string]*hashtagAcc)
				hashtags[v.Topic] = byTag
			}
			ha, ok := byTag[h]
			if !ok {
				ha = &hashtagAcc{}
				byTag[h] = ha
			}
			ha.count++
			ha.sum += v.EngagementScore
		}
	}
	sort.Strings(topicOrder)

	out := model.StylePatterns{}
	for _, topic := range topicOrder {
		acc := topics[topic]
		n := float64(acc.count)
		out.Captions = append(out.Captions, model.CaptionStyle{
			Topic:            topic,
			AvgCaptionLength: acc.captionWords / n,
			QuestionRatio:    float64(acc.questions) / n,
			AvgEngagement:    acc.engagement / n,
		})
		out.Interactions = append(out.Interactions, model.InteractionPattern{
			Topic:               topic,
			AvgInteractionRatio: acc.interaction / n,
			AvgEngagement:       acc.engagement / n,
		})

		tags := make([]string, 0, len(hashtags[topic]))
		for h := range hashtags[topic] {
			tags = append(tags, h)
		}
		sort.Strings(tags)
		for _, h := range tags {
			ha := hashtags[topic][h]
			out.Hashtags = append(out.Hashtags, model.HashtagPattern{
				Topic:         topic,
				Hashtag:       h,
				UsageCount:    ha.count,
				AvgEngagement: ha.sum / float64(ha.count),
			})
		}
	}
	sort.SliceStable(out.Hashtags, func(i, j int) bool {
		return out.Hashtags[i].AvgEngagement > out.Hashtags[j].AvgEngagement
	})
	return out
}

// StylePatternAnalyzer is the command that summarizes posting style per
// topic.
type StylePatternAnalyzer struct {
	cor.BaseCommand
}

// NewStylePatternAnalyzer is the constructor for the StylePatternAnalyzer
// command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *StylePatternAnalyzer: A pointer to the newly instantiated command.
func NewStylePatternAnalyzer(name string) *StylePatternAnalyzer {
	out := StylePatternAnalyzer{BaseCommand: *cor.NewBaseCommand(name)}
	out.InputParamName = ScoredVideosParam
	return &out
}

// Execute computes the style pattern bundle and publishes it under
// `StylePatternsParam`.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *StylePatternAnalyzer) Execute(context cor.Context) {
	scored := context.Get(s.GetInputParam()).([]model.ScoredVideo)

	style := AnalyzeStylePatterns(scored)

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(StylePatternsParam, style)
	context.Add(cor.CtxOut, style)
}
