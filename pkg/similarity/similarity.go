// Package similarity computes the composite similarity score between two
// memory artifacts by combining embedding cosine similarity, emotion match,
// and semantic-tag overlap with fixed weights.
package similarity

import (
	"math"
	"strings"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// Weights of the three similarity signals. They sum to 1.0, but the
// composite score is not clamped: the cosine component ranges [-1, 1], so
// strongly anti-correlated embeddings can push the total below zero. This
// is intentional and preserved from the reference behavior.
const (
	// WeightSemantic weights the embedding cosine similarity.
	WeightSemantic = 0.65

	// WeightEmotion weights the case-insensitive emotion label match.
	WeightEmotion = 0.20

	// WeightTags weights the Jaccard overlap of semantic-tag sets.
	WeightTags = 0.15
)

// Cosine computes the cosine similarity between two embedding vectors.
//
// Only the overlapping dimensions are compared: vectors of different
// lengths are truncated to the shorter one. If either vector has zero
// norm, the similarity is 0.
//
// Returns a value in [-1, 1].
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}

	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Jaccard computes the Jaccard similarity of two tag lists, treating each
// list as a case-insensitive set. Two empty lists yield 0.
func Jaccard(a, b []string) float64 {
	sa := lowerSet(a)
	sb := lowerSet(b)

	union := len(sa)
	inter := 0
	for tag := range sb {
		if _, ok := sa[tag]; ok {
			inter++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Score computes the composite similarity between two artifacts:
//
//	0.65*cosine(embeddings) + 0.20*emotionMatch + 0.15*jaccard(tags)
//
// The emotion match is 1 when the labels are case-insensitively equal,
// else 0. Score is symmetric: Score(a, b) == Score(b, a). Degenerate
// inputs (zero-norm embeddings, missing tags or emotion) contribute 0
// for the affected signal rather than failing.
func Score(a, b *museum.MemoryArtifact) float64 {
	semantic := Cosine(a.Embedding, b.Embedding)

	emotion := 0.0
	if strings.EqualFold(a.Emotion, b.Emotion) {
		emotion = 1.0
	}

	tags := Jaccard(a.SemanticTags, b.SemanticTags)

	return semantic*WeightSemantic + emotion*WeightEmotion + tags*WeightTags
}

func lowerSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[strings.ToLower(tag)] = struct{}{}
	}
	return set
}
