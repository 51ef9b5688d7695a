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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files. It provides a structured way to manage settings
// for the components of the analytics service: the YouTube Data API client,
// the BigQuery run store, and the defaults for topic modeling.
//
// Structs:
//   - BigQueryDataSource: Configuration for the BigQuery dataset and tables.
//   - YouTubeDataSource: Configuration for the YouTube Data API client.
//   - AnalysisDefaults: Server-side defaults for the topic model tunables.
//   - Config: The top-level struct that aggregates all other configuration structs.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object.
package cloud

// BigQueryDataSource represents the configuration for the BigQuery run store.
type BigQueryDataSource struct {
	DatasetName string `toml:"dataset"`      // The name of the BigQuery dataset.
	RunsTable   string `toml:"runs_table"`   // The table holding one row per analysis run.
	VideosTable string `toml:"videos_table"` // The table holding one row per scored video.
}

// YouTubeDataSource represents the configuration for the YouTube Data API
// acquisition client.
type YouTubeDataSource struct {
	APIKey               string `toml:"api_key"`                 // The YouTube Data API key.
	MaxResults           int64  `toml:"max_results"`             // How many recent videos to fetch per channel.
	MaxRequestsPerMinute int    `toml:"max_requests_per_minute"` // The API quota ceiling enforced client-side.
}

// AnalysisDefaults holds the server-side defaults for the topic model. A
// request may override any of them; zero values fall back to these.
type AnalysisDefaults struct {
	NumTopics       int     `toml:"num_topics"`  // K, the number of topic clusters.
	MinDocFrequency int     `toml:"min_df"`      // Minimum document count for a vocabulary term.
	MaxDocFraction  float64 `toml:"max_df"`      // Maximum document fraction for a vocabulary term.
	Seed            int64   `toml:"random_seed"` // The fixed clustering seed.
}

// Config represents the overall configuration for the application, loaded
// from TOML files. It acts as the root container for all other configuration
// structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name            string `toml:"name"`              // The name of the application.
		GoogleProjectId string `toml:"google_project_id"` // The Google Cloud project ID.
		GoogleLocation  string `toml:"location"`          // The Google Cloud location.
	} `toml:"application"`
	BigQueryDataSource BigQueryDataSource `toml:"big_query_data_source"` // BigQuery run store configuration.
	YouTubeDataSource  YouTubeDataSource  `toml:"youtube_data_source"`   // YouTube acquisition configuration.
	AnalysisDefaults   AnalysisDefaults   `toml:"analysis_defaults"`     // Topic model defaults.
}

// NewConfig is a constructor function that creates a new, initialized Config
// instance.
//
// Outputs:
//   - *Config: A pointer to a new Config struct.
func NewConfig() *Config {
	return &Config{}
}
