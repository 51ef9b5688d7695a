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
// topic modeling step of the analysis pipeline.
//
// Logic Flow:
// The TopicModeler receives the normalized documents produced by the
// TextNormalizer and assigns every video a human-readable topic label.
//
//  1. It vectorizes the corpus with TF-IDF. Terms appearing in fewer
//     documents than `min_df` or in more than a `max_df` fraction of the
//     documents are excluded from the vocabulary.
//  2. It partitions the vectors into K clusters with seeded k-means, so an
//     identical corpus with an identical seed always reproduces identical
//     assignments.
//  3. Each cluster is labeled with its top five terms by centroid weight,
//     joined into a comma-separated string, and every video receives the
//     label of its cluster.
//
// An entirely empty corpus short-circuits with empty labels for every video.
// A topic count exceeding the number of distinct documents fails the run with
// a ConfigurationError.
package commands

import (
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/jaycherian/gcp-go-social-analytics/internal/core/cor"
	"github.com/jaycherian/gcp-go-social-analytics/internal/core/model"
)

// topicLabelTerms is the number of top-weighted centroid terms joined into a
// cluster's label.
const topicLabelTerms = 5

// maxKMeansIterations bounds the Lloyd iteration loop. Small corpora converge
// in a handful of passes; the bound only guards against oscillation.
const maxKMeansIterations = 100

// ExtractTopics assigns one topic label per document. The returned slice is
// index-aligned with the input. Determinism is a hard requirement here: the
// vocabulary is built in sorted order, cluster seeding derives entirely from
// opts.Seed, and every tie-break is by lowest index, so identical input
// reproduces identical output.
//
// Inputs:
//   - docs: The normalized document per video, index-aligned with the run's videos.
//   - opts: The run's clustering options (topic count, document-frequency bounds, seed).
//
// Outputs:
//   - []string: One topic label per document; all empty when the corpus is empty.
//   - error: A ConfigurationError when opts.NumTopics exceeds the number of distinct documents.
func ExtractTopics(docs []string, opts model.AnalysisOptions) ([]string, error) {
	opts = opts.Normalize()
	labels := make([]string, len(docs))

	// Short-circuit: an entirely empty corpus produces no topics and no error.
	distinct := make(map[string]struct{})
	for _, d := range docs {
		if d != "" {
			distinct[d] = struct{}{}
		}
	}
	if len(distinct) == 0 {
		return labels, nil
	}
	if opts.NumTopics > len(distinct) {
		return nil, &model.ConfigurationError{Reason: "topic count exceeds the number of distinct documents in the corpus"}
	}

	vocab, vectors := vectorize(docs, opts)
	if len(vocab) == 0 {
		// The document-frequency bounds removed every term. Treat this the
		// same as an empty corpus.
		return labels, nil
	}

	assignments, centroids := cluster(vectors, opts.NumTopics, opts.Seed)

	clusterLabels := make([]string, opts.NumTopics)
	for k := range centroids {
		clusterLabels[k] = labelForCentroid(centroids[k], vocab)
	}
	for i := range docs {
		if docs[i] == "" {
			continue
		}
		labels[i] = clusterLabels[assignments[i]]
	}
	return labels, nil
}

// vectorize builds the TF-IDF matrix for the corpus. The vocabulary is the
// sorted set of terms whose document frequency falls within the configured
// bounds; term frequency is the raw in-document count, the inverse document
// frequency is smoothed (ln((1+n)/(1+df))+1), and each row is L2-normalized.
func vectorize(docs []string, opts model.AnalysisOptions) ([]string, [][]float64) {
	n := len(docs)
	df := make(map[string]int)
	tokenized := make([][]string, n)
	for i, d := range docs {
		tokenized[i] = strings.Fields(d)
		seen := make(map[string]struct{})
		for _, t := range tokenized[i] {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				df[t]++
			}
		}
	}

	maxDocs := opts.MaxDocFraction * float64(n)
	var vocab []string
	for t, f := range df {
		if f >= opts.MinDocFrequency && float64(f) <= maxDocs {
			vocab = append(vocab, t)
		}
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, t := range vocab {
		index[t] = i
	}
	idf := make([]float64, len(vocab))
	for i, t := range vocab {
		idf[i] = math.Log(float64(1+n)/float64(1+df[t])) + 1.0
	}

	vectors := make([][]float64, n)
	for i := range docs {
		row := make([]float64, len(vocab))
		for _, t := range tokenized[i] {
			if j, ok := index[t]; ok {
				row[j] += 1.0
			}
		}
		var norm float64
		for j := range row {
			row[j] *= idf[j]
			norm += row[j] * row[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		vectors[i] = row
	}
	return vocab, vectors
}

// cluster runs seeded k-means over the document vectors. Initial centroids
// are K distinct document vectors chosen by a seeded shuffle; assignment
// ties go to the lowest cluster index and empty clusters retain their
// previous centroid, so the whole procedure is a pure function of the input
// and the seed.
func cluster(vectors [][]float64, k int, seed int64) ([]int, [][]float64) {
	n := len(vectors)
	dims := len(vectors[0])
	rng := rand.New(rand.NewSource(seed))

	// Seed centroids with K distinct vectors, located through a seeded
	// shuffle of the document indices.
	order := rng.Perm(n)
	centroids := make([][]float64, 0, k)
	used := make(map[string]struct{})
	for _, i := range order {
		key := vectorKey(vectors[i])
		if _, ok := used[key]; ok {
			continue
		}
		used[key] = struct{}{}
		c := make([]float64, dims)
		copy(c, vectors[i])
		centroids = append(centroids, c)
		if len(centroids) == k {
			break
		}
	}
	// Fewer distinct vectors than clusters can only happen when distinct
	// document strings collapse to identical vectors after the frequency
	// bounds; pad with copies so every video still gets an assignment.
	for len(centroids) < k {
		c := make([]float64, dims)
		copy(c, centroids[len(centroids)%len(used)])
		centroids = append(centroids, c)
	}

	assignments := make([]int, n)
	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, v := range vectors {
			best, bestDist := 0, math.Inf(1)
			for c := range centroids {
				d := squaredDistance(v, centroids[c])
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, v := range vectors {
			counts[assignments[i]]++
			for j := range v {
				sums[assignments[i]][j] += v[j]
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for j := range centroids[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}
	return assignments, centroids
}

// labelForCentroid joins the centroid's top-weighted terms into the cluster's
// human-readable label. Weight ties break alphabetically so labels are stable
// across runs.
func labelForCentroid(centroid []float64, vocab []string) string {
	type termWeight struct {
		term   string
		weight float64
	}
	weights := make([]termWeight, 0, len(vocab))
	for j, t := range vocab {
		weights = append(weights, termWeight{term: t, weight: centroid[j]})
	}
	sort.SliceStable(weights, func(a, b int) bool {
		if weights[a].weight != weights[b].weight {
			return weights[a].weight > weights[b].weight
		}
		return weights[a].term < weights[b].term
	})
	top := topicLabelTerms
	if top > len(weights) {
		top = len(weights)
	}
	terms := make([]string, 0, top)
	for _, w := range weights[:top] {
		terms = append(terms, w.term)
	}
	return strings.Join(terms, ", ")
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func vectorKey(v []float64) string {
	var sb strings.Builder
	for _, f := range v {
		sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		sb.WriteByte('|')
	}
	return sb.String()
}

// TopicModeler is the command that clusters the run's videos into topics.
type TopicModeler struct {
	cor.BaseCommand
}

// NewTopicModeler is the constructor for the TopicModeler command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *TopicModeler: A pointer to the newly instantiated command.
func NewTopicModeler(name string) *TopicModeler {
	return &TopicModeler{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute runs topic extraction over the piped document slice and pipes the
// per-video label slice forward.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *TopicModeler) Execute(context cor.Context) {
	docs := context.Get(s.GetInputParam()).([]string)
	req := context.Get(AnalysisRequestParam).(*model.AnalysisRequest)

	labels, err := ExtractTopics(docs, req.Options)
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), err)
		return
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, labels)
}
