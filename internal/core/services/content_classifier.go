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
// This file implements the rule-based content classifier used by the CSV
// quick-scan path. Categories form an enumerated set, each with its keyword
// triggers, evaluated in a fixed priority order over the lowercased caption;
// the first category with a matching keyword wins, and a caption matching
// nothing falls through to the entertainment default. The classifier is
// deliberately dumb and deterministic; it exists so the quick scan can group
// posts without running the topic model.
package services

import "strings"

// ContentCategory is one entry of the classifier's fixed category set.
type ContentCategory struct {
	Primary string // The category name (e.g., "Educational").
	Format  string // The content format associated with the category.
}

// categoryRule binds a category to its keyword triggers. Order in the rules
// slice is the evaluation priority.
type categoryRule struct {
	category ContentCategory
	keywords []string
}

var classifierRules = []categoryRule{
	{
		category: ContentCategory{Primary: "Educational", Format: "Tips & How-To"},
		keywords: []string{"tip", "how", "guide", "learn"},
	},
	{
		category: ContentCategory{Primary: "Motivational", Format: "Inspirational"},
		keywords: []string{"believe", "success", "motivation", "inspire"},
	},
	{
		category: ContentCategory{Primary: "Promotional", Format: "Hard CTA"},
		keywords: []string{"buy", "offer", "sale", "link in bio", "discount"},
	},
	{
		category: ContentCategory{Primary: "Personal", Format: "Relatable"},
		keywords: []string{"my life", "relatable", "me when", "daily"},
	},
	{
		category: ContentCategory{Primary: "Opinion", Format: "Commentary"},
		keywords: []string{"opinion", "thoughts", "hot take"},
	},
}

// defaultCategory is returned when no rule matches.
var defaultCategory = ContentCategory{Primary: "Entertainment", Format: "General"}

// ClassifyContent assigns a caption to its content category by keyword
// substring match, first rule wins.
//
// Inputs:
//   - caption: The raw caption text.
//
// Outputs:
//   - ContentCategory: The matched category, or the entertainment default.
func ClassifyContent(caption string) ContentCategory {
	text := strings.ToLower(caption)
	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return defaultCategory
}
