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
// This file, `queries.go`, centralizes all the BigQuery SQL query strings used
// by the application's services. Storing queries as constants in a dedicated
// file improves maintainability, readability, and reusability. The queries use
// `fmt.Sprintf` format verbs (e.g., %s, %d) as placeholders for dynamic values
// that will be injected at runtime; user-supplied values are always bound as
// query parameters, never formatted into the SQL text.
package services

const (
	// QryPreviousOwnMean finds the own-side mean engagement of a user's most
	// recent analysis run. This is the growth-rating baseline; it is fetched
	// before the analysis workflow starts and passed in as a value.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the runs table.
	QryPreviousOwnMean = "SELECT own_avg_engagement FROM `%s` WHERE user_id = @user_id ORDER BY analyzed_at DESC LIMIT 1"

	// QryFindRunById retrieves a single analysis run owned by the requesting
	// user. Scoping by user_id in the query keeps one user's runs invisible
	// to another.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the runs table.
	QryFindRunById = "SELECT run_id, user_id, channel_url, analyzed_at, total_videos, own_avg_engagement, snapshot_json FROM `%s` WHERE run_id = @run_id AND user_id = @user_id"

	// QryRunHistory lists a user's runs newest first, scalars only. The
	// snapshot payload is deliberately excluded; history rows are for
	// rendering the growth timeline, not for reconstruction.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the runs table.
	QryRunHistory = "SELECT run_id, user_id, channel_url, analyzed_at, total_videos, own_avg_engagement, '' AS snapshot_json FROM `%s` WHERE user_id = @user_id ORDER BY analyzed_at DESC LIMIT @limit"

	// QryLatestRun retrieves the user's most recent run with its full
	// snapshot payload.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the runs table.
	QryLatestRun = "SELECT run_id, user_id, channel_url, analyzed_at, total_videos, own_avg_engagement, snapshot_json FROM `%s` WHERE user_id = @user_id ORDER BY analyzed_at DESC LIMIT 1"
)
