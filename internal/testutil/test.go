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

// Package test provides utility functions and sample data to support the
// application's test suite. It helps in setting up a consistent test
// environment, loading test-specific configuration, and building the video
// fixtures the pipeline tests run on.
package test

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/jaycherian/gcp-go-social-analytics/internal/cloud"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// StateManager acts as a simple in-memory cache for the application
// configuration during test runs, so configuration files load only once per
// test binary.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr is a simple test helper that fails the test when err is not nil.
//
// Inputs:
//   - err: The error to check.
//   - t: The *testing.T object from the current test.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// SetupOS configures the environment variables the configuration loader
// depends on, pointing it at the test configuration files
// (configs/.env.test.toml).
//
// Returns:
//   - An error if setting any environment variable fails.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
//
// Returns:
//   - A pointer to the loaded and cached cloud.Config struct.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// Video builds a valid VideoRecord fixture, panicking on construction errors
// since fixtures are static by definition.
//
// Inputs:
//   - id: The video id, also reused as the title seed.
//   - title, description: The text fields fed to the topic model.
//   - published: The publication timestamp.
//   - views, likes, comments: The raw counters.
//   - source: The source tag.
//
// Returns:
//   - The constructed VideoRecord.
func Video(id, title, description string, published time.Time, views, likes, comments int64, source model.Source) model.VideoRecord {
	v, err := model.NewVideoRecord(id, title, description, published, views, likes, comments, source)
	if err != nil {
		panic(err)
	}
	return v
}

// Month is shorthand for building a publication timestamp on the first day
// of the given month.
func Month(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 12, 0, 0, 0, time.UTC)
}

// FitnessChannelVideos returns a deterministic two-source fixture set: an own
// channel posting fitness and meal content and a competitor posting travel
// vlogs. The texts repeat their key terms across videos so the TF-IDF
// vocabulary retains them under the default document-frequency bounds.
//
// Returns:
//   - A slice of VideoRecords covering both sources and three months.
func FitnessChannelVideos() []model.VideoRecord {
	return []model.VideoRecord{
		Video("own-1", "Morning workout routine for beginners", "Full body workout routine #fitness #workout", Month(2025, time.January), 1000, 50, 10, model.SourceOwn),
		Video("own-2", "My workout routine update", "New workout routine for strength #fitness", Month(2025, time.February), 2000, 80, 20, model.SourceOwn),
		Video("own-3", "Meal prep ideas for the week", "Healthy meal prep ideas #mealprep", Month(2025, time.January), 1500, 40, 5, model.SourceOwn),
		Video("own-4", "Meal prep ideas on a budget", "Cheap healthy meal prep ideas #mealprep #budget", Month(2025, time.February), 800, 30, 4, model.SourceOwn),
		Video("own-5", "Why is my workout routine not working?", "Common workout routine mistakes #fitness", Month(2025, time.March), 3000, 60, 12, model.SourceOwn),
		Video("comp-1", "Travel vlog from Lisbon", "Travel vlog exploring Lisbon #travel #vlog", Month(2025, time.January), 5000, 400, 80, model.SourceCompetitor),
		Video("comp-2", "Travel vlog from Tokyo", "Travel vlog exploring Tokyo streets #travel #vlog", Month(2025, time.February), 7000, 600, 120, model.SourceCompetitor),
		Video("comp-3", "Meal prep ideas for travelers", "Meal prep ideas when traveling #mealprep", Month(2025, time.February), 2500, 100, 30, model.SourceCompetitor),
	}
}
