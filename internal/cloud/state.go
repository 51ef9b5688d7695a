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

// Package cloud provides components for interacting with Google Cloud services.
// This file is responsible for initializing and holding all the client
// objects the service needs: the BigQuery client backing the run store and
// the quota-aware YouTube fetcher backing video acquisition. It acts as a
// dependency injection container, creating a single shared `ServiceClients`
// struct that can be passed throughout the application.
//
// Structs:
//   - ServiceClients: A container struct holding all initialized service clients.
//
// Functions:
//   - Close: A convenience method to gracefully shut down all client connections.
//   - NewCloudServiceClients: A factory function that creates and configures all
//     necessary clients based on the application's configuration.
package cloud

import (
	"context"

	"cloud.google.com/go/bigquery"
)

// ServiceClients is a struct that acts as a central container for all the
// clients that interact with external services. This pattern is a form of
// dependency injection, making it easy to manage and share these client
// connections across the entire application.
type ServiceClients struct {
	BigQueryClient *bigquery.Client // Client for Google Cloud BigQuery.
	YouTubeFetcher *ChannelFetcher  // Quota-aware client for the YouTube Data API.
}

// Close is a utility method to gracefully shut down all the active client
// connections. Client connections are typically managed by the application's
// root context, but this method provides an explicit way to release
// resources, which is especially useful in tests or for controlled shutdowns.
func (c *ServiceClients) Close() {
	_ = c.BigQueryClient.Close()
}

// NewCloudServiceClients is a factory function that initializes all required
// service clients based on the provided configuration. It serves as the main
// entry point for setting up the application's external dependencies.
//
// Inputs:
//   - ctx: The root context.Context for the application, used to manage the lifecycle of the clients.
//   - config: A pointer to the loaded application configuration (`Config`).
//
// Outputs:
//   - *ServiceClients: A pointer to the fully initialized ServiceClients struct.
//   - error: An error if any of the clients fail to initialize.
func NewCloudServiceClients(ctx context.Context, config *Config) (clients *ServiceClients, err error) {
	// Create a new Google Cloud BigQuery client.
	bc, err := bigquery.NewClient(ctx, config.Application.GoogleProjectId)
	if err != nil {
		return nil, err
	}

	// Create the rate-limited YouTube acquisition client.
	yf, err := NewChannelFetcher(ctx, &config.YouTubeDataSource)
	if err != nil {
		return nil, err
	}

	return &ServiceClients{
		BigQueryClient: bc,
		YouTubeFetcher: yf,
	}, nil
}
