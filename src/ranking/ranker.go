package ranking

import (
	"math"
	"sort"

	"github.com/govscout/govscout/src/models"
)

// Scored pairs a candidate index with its similarity score.
type Scored struct {
	Index int
	Score float64
}

// Similarity computes the cosine similarity between two vectors, in [-1, 1]
// for non-zero vectors. Vectors of unequal length are an error, never a
// silent zero. A zero vector scores 0 against anything.
func Similarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, &models.DimensionMismatchError{Want: len(a), Got: len(b)}
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Rank scores every candidate vector against the query and returns all
// candidates ordered by score descending. Ties keep their original order.
// Candidates with no embedding score 0 but are never dropped here; filtering
// of non-positive scores is a call-site decision.
func Rank(query []float32, candidates [][]float32) ([]Scored, error) {
	scored := make([]Scored, len(candidates))
	for i, candidate := range candidates {
		if len(candidate) == 0 {
			scored[i] = Scored{Index: i, Score: 0}
			continue
		}
		score, err := Similarity(query, candidate)
		if err != nil {
			return nil, err
		}
		scored[i] = Scored{Index: i, Score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored, nil
}
