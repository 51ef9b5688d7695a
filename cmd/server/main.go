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

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
	"github.com/jaycherian/gcp-go-social-analytics/internal/telemetry"
)

// userIDHeader carries the authenticated analyst's identity, injected by the
// gateway in front of this service.
const userIDHeader = "X-User-ID"

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	_, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()

	// Add OpenTelemetry middleware
	r.Use(otelgin.Middleware("social-analytics-server"))

	// Default CORS configuration: all origins, methods, and headers, which is
	// safe for local development behind the gateway.
	r.Use(cors.Default())

	// Create the "/api/v1" group
	apiV1 := r.Group("/api/v1")
	{
		AnalyzeRouter(apiV1)
		AnalysisRouter(apiV1)
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// Start the server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready on port 8080")

	// Wait for an interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}

	log.Println("Server exiting")
}

// analyzeYouTubeRequest is the POST body for a full channel analysis.
type analyzeYouTubeRequest struct {
	ChannelURL     string   `json:"channel_url" binding:"required"`
	CompetitorURLs []string `json:"competitor_urls"`
	Goal           string   `json:"goal"`
	Options        struct {
		NumTopics       int     `json:"num_topics"`
		MinDocFrequency int     `json:"min_df"`
		MaxDocFraction  float64 `json:"max_df"`
	} `json:"options"`
}

// AnalyzeRouter sets up the routes that start new analyses.
func AnalyzeRouter(r *gin.RouterGroup) {
	analyze := r.Group("/analyze")
	{
		// Full channel analysis: fetch videos from YouTube, run the
		// pipeline, persist and return the snapshot.
		analyze.POST("/youtube", func(c *gin.Context) {
			userID := c.GetHeader(userIDHeader)
			if userID == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
				return
			}

			var req analyzeYouTubeRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			videos, err := fetchRunVideos(c, &req)
			if err != nil {
				abortWithAnalysisError(c, err)
				return
			}
			if len(videos) == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "No videos found"})
				return
			}

			// The growth baseline is read before the workflow starts; the
			// pipeline itself never queries storage mid-run.
			previousMean, err := state.analysisService.PreviousOwnMean(c, userID)
			if err != nil {
				log.Printf("Error fetching baseline for user %s: %v\n", userID, err)
				c.Status(http.StatusInternalServerError)
				return
			}

			defaults := state.config.AnalysisDefaults
			options := model.AnalysisOptions{
				NumTopics:       firstNonZero(req.Options.NumTopics, defaults.NumTopics),
				MinDocFrequency: firstNonZero(req.Options.MinDocFrequency, defaults.MinDocFrequency),
				MaxDocFraction:  firstNonZeroFloat(req.Options.MaxDocFraction, defaults.MaxDocFraction),
				Seed:            defaults.Seed,
			}.Normalize()

			request := &model.AnalysisRequest{
				RunID:           uuid.NewString(),
				UserID:          userID,
				ChannelURL:      req.ChannelURL,
				Goal:            model.Goal(req.Goal),
				Videos:          videos,
				PreviousOwnMean: previousMean,
				Options:         options,
			}

			chainCtx := cor.NewBaseContext()
			chainCtx.SetContext(c.Request.Context())
			snapshot, err := state.analysisWorkflow.Run(chainCtx, request)
			if err != nil {
				abortWithAnalysisError(c, err)
				return
			}
			c.JSON(http.StatusOK, snapshot)
		})

		// Ad-hoc CSV quick scan: no topic model, no persistence.
		analyze.POST("/csv", func(c *gin.Context) {
			file, _, err := c.Request.FormFile("file")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing csv file upload"})
				return
			}
			defer func() { _ = file.Close() }()

			report, err := state.quickScanService.ScanCSV(file, c.PostForm("goal"))
			if err != nil {
				abortWithAnalysisError(c, err)
				return
			}
			c.JSON(http.StatusOK, report)
		})
	}
}

// AnalysisRouter sets up the routes that read stored analysis runs.
func AnalysisRouter(r *gin.RouterGroup) {
	analysis := r.Group("/analysis")
	{
		analysis.GET("/history", func(c *gin.Context) {
			userID := c.GetHeader(userIDHeader)
			if userID == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
				return
			}
			limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
			if err != nil {
				limit = 20
			}
			rows, err := state.analysisService.History(c, userID, limit)
			if err != nil {
				log.Printf("Error listing run history: %v\n", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, rows)
		})

		analysis.GET("/latest", func(c *gin.Context) {
			userID := c.GetHeader(userIDHeader)
			if userID == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
				return
			}
			snapshot, err := state.analysisService.Latest(c, userID)
			if err != nil {
				log.Printf("Error fetching latest run: %v\n", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			if snapshot == nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, snapshot)
		})

		analysis.GET("/run/:id", func(c *gin.Context) {
			userID := c.GetHeader(userIDHeader)
			if userID == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
				return
			}
			snapshot, err := state.analysisService.GetRun(c, c.Param("id"), userID)
			if err != nil {
				log.Printf("Error fetching run %s: %v\n", c.Param("id"), err)
				c.Status(http.StatusInternalServerError)
				return
			}
			if snapshot == nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, snapshot)
		})
	}
}

// fetchRunVideos acquires the run's working set: the user's own channel plus
// every competitor channel, each tagged with its source.
func fetchRunVideos(c *gin.Context, req *analyzeYouTubeRequest) ([]model.VideoRecord, error) {
	videos, err := state.cloud.YouTubeFetcher.FetchChannelVideos(c.Request.Context(), req.ChannelURL, model.SourceOwn)
	if err != nil {
		return nil, err
	}
	for _, competitorURL := range req.CompetitorURLs {
		competitorVideos, err := state.cloud.YouTubeFetcher.FetchChannelVideos(c.Request.Context(), competitorURL, model.SourceCompetitor)
		if err != nil {
			return nil, err
		}
		videos = append(videos, competitorVideos...)
	}
	return videos, nil
}

// abortWithAnalysisError maps the engine's typed failures onto HTTP statuses:
// configuration problems are the caller's fault, missing own-side data is an
// unprocessable request, and anything else is a server error.
func abortWithAnalysisError(c *gin.Context, err error) {
	var configErr *model.ConfigurationError
	if errors.As(err, &configErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": configErr.Error()})
		return
	}
	var dataErr *model.InsufficientDataError
	if errors.As(err, &dataErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": dataErr.Error()})
		return
	}
	log.Printf("Analysis failed: %v\n", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
}

func firstNonZero(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func firstNonZeroFloat(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
