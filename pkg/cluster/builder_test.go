package cluster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/cluster"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// beachArtifact and cityArtifact build two families of artifacts that are
// mutually similar within a family and orthogonal across families.
func beachArtifact(id string) museum.MemoryArtifact {
	return museum.MemoryArtifact{
		ID:           id,
		Emotion:      "joy",
		SemanticTags: []string{"beach", "summer"},
		Embedding:    []float64{1, 0},
	}
}

func cityArtifact(id string) museum.MemoryArtifact {
	return museum.MemoryArtifact{
		ID:           id,
		Emotion:      "calm reflection",
		SemanticTags: []string{"city", "night"},
		Embedding:    []float64{0, 1},
	}
}

func TestBuild_Empty(t *testing.T) {
	clusters := cluster.Build(nil, 0)
	assert.Empty(t, clusters)
}

func TestBuild_TwoFamilies(t *testing.T) {
	artifacts := []museum.MemoryArtifact{
		beachArtifact("a1"),
		cityArtifact("b1"),
		beachArtifact("a2"),
		cityArtifact("b2"),
	}

	clusters := cluster.Build(artifacts, 0)
	require.Len(t, clusters, 2)

	assert.Equal(t, []string{"a1", "a2"}, clusters[0].MemberIDs)
	assert.Equal(t, []string{"b1", "b2"}, clusters[1].MemberIDs)

	assert.Equal(t, "beach memories", clusters[0].Theme)
	assert.Equal(t, "city memories", clusters[1].Theme)
	assert.Equal(t, "joy", clusters[0].EmotionProfile)
	assert.Equal(t, "calm reflection", clusters[1].EmotionProfile)
}

func TestBuild_Partition(t *testing.T) {
	artifacts := []museum.MemoryArtifact{
		beachArtifact("a1"),
		cityArtifact("b1"),
		beachArtifact("a2"),
		cityArtifact("b2"),
		beachArtifact("a3"),
	}

	clusters := cluster.Build(artifacts, 0)

	seen := make(map[string]int)
	for _, c := range clusters {
		for _, id := range c.MemberIDs {
			seen[id]++
		}
	}

	// Every artifact belongs to exactly one cluster.
	require.Len(t, seen, len(artifacts))
	for id, count := range seen {
		assert.Equal(t, 1, count, "artifact %s in %d clusters", id, count)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	artifacts := []museum.MemoryArtifact{
		beachArtifact("a1"),
		cityArtifact("b1"),
		beachArtifact("a2"),
	}

	first := cluster.Build(artifacts, 0)
	second := cluster.Build(artifacts, 0)

	require.Len(t, second, len(first))
	for i := range first {
		// Cluster ids are freshly generated, everything else repeats.
		assert.Equal(t, first[i].Theme, second[i].Theme)
		assert.Equal(t, first[i].MemberIDs, second[i].MemberIDs)
		assert.Equal(t, first[i].EmotionProfile, second[i].EmotionProfile)
		assert.Equal(t, first[i].Tags, second[i].Tags)
		assert.Equal(t, first[i].Centroid, second[i].Centroid)
	}
}

func TestBuild_HighThresholdSingletons(t *testing.T) {
	artifacts := []museum.MemoryArtifact{
		beachArtifact("a1"),
		beachArtifact("a2"),
	}

	// Above the maximum possible composite score.
	clusters := cluster.Build(artifacts, 1.5)
	assert.Len(t, clusters, 2)
}

func TestBuild_PlaceholderTheme(t *testing.T) {
	artifacts := []museum.MemoryArtifact{
		{ID: "x1", Emotion: "wonder", Embedding: []float64{1}},
	}

	clusters := cluster.Build(artifacts, 0)
	require.Len(t, clusters, 1)
	assert.Equal(t, "Memory cluster 1", clusters[0].Theme)
	assert.Empty(t, clusters[0].Tags)
}

func TestBuild_TopTagsDescending(t *testing.T) {
	artifacts := []museum.MemoryArtifact{
		{ID: "x1", Emotion: "joy", Embedding: []float64{1}, SemanticTags: []string{"rare", "common"}},
		{ID: "x2", Emotion: "joy", Embedding: []float64{1}, SemanticTags: []string{"common", "other", "extra", "more"}},
	}

	clusters := cluster.Build(artifacts, 0)
	require.Len(t, clusters, 1)

	require.NotEmpty(t, clusters[0].Tags)
	assert.Equal(t, "common", clusters[0].Tags[0])
	// At most four tags survive.
	assert.LessOrEqual(t, len(clusters[0].Tags), 4)
	assert.Equal(t, "common memories", clusters[0].Theme)
}

func TestBuild_CentroidFirstMemberAuthoritative(t *testing.T) {
	artifacts := []museum.MemoryArtifact{
		{ID: "x1", Emotion: "joy", SemanticTags: []string{"t"}, Embedding: []float64{1, 1}},
		{ID: "x2", Emotion: "joy", SemanticTags: []string{"t"}, Embedding: []float64{1}},
	}

	clusters := cluster.Build(artifacts, 0)
	require.Len(t, clusters, 1)
	require.Len(t, clusters[0].MemberIDs, 2)

	// Dimensionality follows the first member; the second member's missing
	// dimension averages as zero.
	require.Len(t, clusters[0].Centroid, 2)
	assert.InDelta(t, 1.0, clusters[0].Centroid[0], 1e-9)
	assert.InDelta(t, 0.5, clusters[0].Centroid[1], 1e-9)
}
