/*
Copyright 2024 Recon Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package recon

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/helgekrogh/recon/model"
)

// SuggestCandidates ranks candidates for one movement to support the manual
// workflow: an operator reviewing a pending or disputed movement gets the
// closest candidates even when none of them clears the automatic acceptance
// threshold. Ordering is by match score, then by fuzzy similarity between the
// movement's free text and the candidate id, then by candidate index. The
// ranking is read-only; nothing is claimed or persisted.
//
// limit caps the number of suggestions; a non-positive limit returns all.
func (s *Reconciler) SuggestCandidates(movement *model.BankMovement, candidates []*model.Candidate, limit int) []*model.MatchSuggestion {
	suggestions := make([]*model.MatchSuggestion, 0, len(candidates))
	for _, candidate := range candidates {
		suggestions = append(suggestions, &model.MatchSuggestion{
			CandidateID: candidate.ID,
			Score:       s.scoreCandidate(movement, candidate),
			Similarity:  referenceSimilarity(movement.MatchableText(), candidate.ID),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Similarity > suggestions[j].Similarity
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// referenceSimilarity measures how close the candidate id is to the
// movement's reference text, as a ratio in [0, 1]. A containment hit counts
// as fully similar; otherwise the Levenshtein distance against the best
// aligned token of the text decides.
func referenceSimilarity(text, candidateID string) float64 {
	text = strings.ToLower(text)
	candidateID = strings.ToLower(candidateID)
	if text == "" || candidateID == "" {
		return 0
	}
	if strings.Contains(text, candidateID) {
		return 1
	}

	best := 0.0
	for _, token := range strings.Fields(text) {
		distance := levenshtein.DistanceForStrings([]rune(token), []rune(candidateID), levenshtein.DefaultOptions)
		maxLength := len([]rune(token))
		if l := len([]rune(candidateID)); l > maxLength {
			maxLength = l
		}
		if ratio := 1 - float64(distance)/float64(maxLength); ratio > best {
			best = ratio
		}
	}
	return best
}
