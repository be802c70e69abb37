// Copyright 2025 The medical-agent Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package knowledge

import (
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

const (
	// DefaultTopK bounds how many documents a search returns.
	DefaultTopK = 3
	// DefaultThreshold is the minimum partial-ratio score (0-100) a
	// document must reach to count as a match.
	DefaultThreshold = 60
)

// Match is one scored search hit.
type Match struct {
	Document Document
	Score    int
	// MatchType records whether the title or the content matched better.
	MatchType string
}

// Search runs fuzzy matching of the query against both document titles and
// content, returning up to topK matches at or above threshold, best first.
func Search(query string, topK, threshold int) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	var matches []Match
	for _, doc := range documents {
		titleScore := fuzzy.PartialRatio(query, strings.ToLower(doc.Title))
		contentScore := fuzzy.PartialRatio(query, strings.ToLower(doc.Content))

		score := titleScore
		matchType := "title"
		if contentScore > titleScore {
			score = contentScore
			matchType = "content"
		}

		if score >= threshold {
			matches = append(matches, Match{Document: doc, Score: score, MatchType: matchType})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}
