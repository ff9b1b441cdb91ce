// Package cluster partitions memory artifacts into similarity clusters
// using a single-pass greedy algorithm and derives per-cluster summary
// metadata (theme, dominant emotion, centroid, top tags).
package cluster

import (
	"fmt"
	"sort"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/similarity"
)

// DefaultThreshold is the average-similarity threshold an artifact must
// reach against a cluster's members to join it.
const DefaultThreshold = 0.5

// topTagCount is how many of the most frequent tags a cluster keeps.
const topTagCount = 4

// Build partitions artifacts into clusters.
//
// The algorithm is online and order-sensitive: artifacts are processed in
// input order, and each one joins the first existing cluster (in creation
// order) whose average member similarity meets or exceeds threshold. If no
// cluster qualifies, the artifact starts a new singleton cluster. This is
// a deliberate simplicity/determinism trade-off: a single O(n*k) pass
// whose result is bit-identical for the same ordered input, at the cost of
// being sensitive to input reordering.
//
// If threshold is 0, DefaultThreshold is used. An empty artifact list
// yields an empty cluster list.
//
// The result is a partition: every artifact belongs to exactly one
// cluster, and cluster member ids are pairwise disjoint.
func Build(artifacts []museum.MemoryArtifact, threshold float64) []museum.MemoryCluster {
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	var groups [][]*museum.MemoryArtifact
	for i := range artifacts {
		artifact := &artifacts[i]
		placed := false
		for gi, group := range groups {
			total := 0.0
			for _, member := range group {
				total += similarity.Score(member, artifact)
			}
			if total/float64(len(group)) >= threshold {
				groups[gi] = append(group, artifact)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []*museum.MemoryArtifact{artifact})
		}
	}

	clusters := make([]museum.MemoryCluster, 0, len(groups))
	for idx, group := range groups {
		clusters = append(clusters, summarize(group, idx))
	}
	return clusters
}

// summarize derives the cluster metadata for one member group.
func summarize(members []*museum.MemoryArtifact, idx int) museum.MemoryCluster {
	topTags := frequentTags(members)

	theme := fmt.Sprintf("Memory cluster %d", idx+1)
	if len(topTags) > 0 {
		theme = topTags[0] + " memories"
	}

	memberIDs := make([]string, len(members))
	for i, member := range members {
		memberIDs[i] = member.ID
	}

	return museum.MemoryCluster{
		ID:             museum.MakeID(fmt.Sprintf("cluster%d", idx+1)),
		Theme:          theme,
		EmotionProfile: dominantEmotion(members),
		Centroid:       averageEmbedding(members),
		MemberIDs:      memberIDs,
		Tags:           topTags,
	}
}

// frequentTags returns the top tags across members, descending by count.
// Ties keep first-seen order (the sort is stable over insertion order).
func frequentTags(members []*museum.MemoryArtifact) []string {
	counts := make(map[string]int)
	var order []string
	for _, member := range members {
		for _, tag := range member.SemanticTags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > topTagCount {
		order = order[:topTagCount]
	}
	return order
}

// dominantEmotion returns the most frequent emotion label among members,
// breaking ties by a stable descending-count sort. Members without any
// emotion still count toward the histogram; an empty group yields
// "neutral".
func dominantEmotion(members []*museum.MemoryArtifact) string {
	if len(members) == 0 {
		return "neutral"
	}

	counts := make(map[string]int, len(members))
	emotions := make([]string, len(members))
	for i, member := range members {
		emotions[i] = member.Emotion
		counts[member.Emotion]++
	}

	sort.SliceStable(emotions, func(i, j int) bool {
		return counts[emotions[i]] > counts[emotions[j]]
	})
	return emotions[0]
}

// averageEmbedding computes the per-dimension mean of member embeddings.
// The first member's embedding length is authoritative; shorter or missing
// dimensions in other members are treated as 0.
func averageEmbedding(members []*museum.MemoryArtifact) []float64 {
	if len(members) == 0 {
		return []float64{}
	}

	dims := len(members[0].Embedding)
	acc := make([]float64, dims)
	for _, member := range members {
		for i := 0; i < dims && i < len(member.Embedding); i++ {
			acc[i] += member.Embedding[i]
		}
	}

	for i := range acc {
		acc[i] /= float64(len(members))
	}
	return acc
}
