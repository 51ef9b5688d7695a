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
// first step of the analysis pipeline: text normalization.
//
// Logic Flow:
// The TextNormalizer opens the analysis chain. It receives the complete
// AnalysisRequest, stashes it in the context under a well-known key so that
// every later command can reach the raw videos and run options, and produces
// one normalized document per video for the topic modeler.
//
//  1. It receives the `*model.AnalysisRequest` as its piped input.
//  2. For every video it concatenates the title and description and runs the
//     result through `NormalizeText`.
//  3. The output is a slice of normalized documents, index-aligned with the
//     request's video slice. Videos whose text normalizes to nothing yield an
//     empty string at their position rather than being dropped, so alignment
//     is preserved.
//  4. The request itself is stored under `AnalysisRequestParam` and the
//     document slice is piped to the next command.
package commands

import (
	"regexp"
	"strings"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// Context parameter keys used to share secondary inputs between the commands
// of the analysis chain. The piped CtxIn/CtxOut slots only carry the primary
// artifact of each stage; everything else travels under these names.
const (
	AnalysisRequestParam = "__ANALYSIS_REQUEST__"
	ScoredVideosParam    = "__SCORED_VIDEOS__"
	TopicSummariesParam  = "__TOPIC_SUMMARIES__"
	TopicTrendsParam     = "__TOPIC_TRENDS__"
	TopicGapsParam       = "__TOPIC_GAPS__"
	StylePatternsParam   = "__STYLE_PATTERNS__"
	InsightReportParam   = "__INSIGHT_REPORT__"
	SnapshotParam        = "__ANALYSIS_SNAPSHOT__"
)

var (
	urlPattern      = regexp.MustCompile(`http\S+`)
	nonAlphaPattern = regexp.MustCompile(`[^a-z\s]`)
)

// stopwords is the standard English stopword set. Filtering is applied after
// lowercasing and symbol stripping, so membership checks only ever see
// lowercase alphabetic tokens.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(stopwordList) {
		stopwords[w] = struct{}{}
	}
}

const stopwordList = `
i me my myself we our ours ourselves you youre youve youll youd your yours
yourself yourselves he him his himself she shes her hers herself it its itself
they them their theirs themselves what which who whom this that thatll these
those am is are was were be been being have has had having do does did doing a
an the and but if or because as until while of at by for with about against
between into through during before after above below to from up down in out on
off over under again further then once here there when where why how all any
both each few more most other some such no nor not only own same so than too
very s t can will just don dont should shouldve now d ll m o re ve y ain aren
arent couldn couldnt didn didnt doesn doesnt hadn hadnt hasn hasnt haven havent
isn isnt ma mightn mightnt mustn mustnt needn neednt shan shant shouldn
shouldnt wasn wasnt weren werent won wont wouldn wouldnt
`

// NormalizeText lowercases the input, strips URLs and every non-alphabetic
// character, removes stopwords, and rejoins the surviving tokens with single
// spaces. An input that reduces to nothing returns an empty string. The
// function is deterministic and has no side effects.
//
// Inputs:
//   - text: The raw text to normalize.
//
// Outputs:
//   - string: The normalized, space-joined token sequence.
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = nonAlphaPattern.ReplaceAllString(text, "")
	var kept []string
	for _, w := range strings.Fields(text) {
		if _, skip := stopwords[w]; !skip {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// TextNormalizer is the command that turns every video's title and
// description into a normalized document for topic modeling.
type TextNormalizer struct {
	cor.BaseCommand
}

// NewTextNormalizer is the constructor for the TextNormalizer command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *TextNormalizer: A pointer to the newly instantiated command.
func NewTextNormalizer(name string) *TextNormalizer {
	return &TextNormalizer{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute normalizes every video's text and pipes the document slice forward.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *TextNormalizer) Execute(context cor.Context) {
	req := context.Get(s.GetInputParam()).(*model.AnalysisRequest)

	docs := make([]string, len(req.Videos))
	for i, v := range req.Videos {
		docs[i] = NormalizeText(v.Title + " " + v.Description)
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)

	// Stash the request for the commands further down the chain; they read
	// the raw videos and run options from here rather than from the piped
	// slot.
	context.Add(AnalysisRequestParam, req)
	context.Add(cor.CtxOut, docs)
}
