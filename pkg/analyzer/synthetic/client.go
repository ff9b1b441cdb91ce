// Package synthetic provides a deterministic offline analysis provider.
//
// It derives every artifact attribute from the file metadata alone, using
// a seeded xorshift PRNG for the embedding, so the same file always yields
// the same artifact contents. It serves as the fallback when no AI backend
// is configured and as a fixture generator in tests.
package synthetic

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/category"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// DefaultDimensions is the embedding length when none is configured.
const DefaultDimensions = 24

// emotions is the pool the hash-picked emotion label comes from.
var emotions = []string{"warm nostalgia", "joy", "calm reflection", "wonder", "melancholy"}

// defaultPalette is the neutral archive palette attached to every
// synthetic artifact.
var defaultPalette = []string{"#d9c2a7", "#7e5f4a", "#2c2f3a"}

// Client implements analyzer.Provider with deterministic synthesis.
type Client struct {
	dimensions int
}

// NewClient creates a synthetic analyzer producing embeddings of the given
// length. If dimensions is 0, DefaultDimensions is used.
func NewClient(dimensions int) *Client {
	if dimensions == 0 {
		dimensions = DefaultDimensions
	}
	return &Client{dimensions: dimensions}
}

// Analyze derives an artifact from file metadata. It never fails: every
// attribute has a deterministic default.
func (c *Client) Analyze(_ context.Context, file museum.UploadedFileRef) (*museum.MemoryArtifact, error) {
	base := strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(
		strings.TrimSuffix(file.Name, filepath.Ext(file.Name))))

	emotion := emotions[StableHash(file.Name)%uint32(len(emotions))]

	title := strings.TrimSpace(file.UserTitle)
	if title == "" {
		title = base
	}
	if title == "" {
		title = "Untitled Memory"
	}

	description := strings.TrimSpace(file.UserDescription)
	if description == "" {
		description = fmt.Sprintf("A %s moment inferred from %s.", emotion, file.Name)
	}

	tags := tagsFromText(base)
	if len(tags) == 0 {
		tags = []string{"memory", "archive"}
	}

	objects := []string{"memory fragment"}
	if file.SourceType == museum.SourceImage {
		objects = []string{"person", "scene"}
	}

	return &museum.MemoryArtifact{
		ID:             museum.MakeID("artifact"),
		FileID:         file.ID,
		SourceType:     file.SourceType,
		Title:          title,
		Description:    description,
		Emotion:        emotion,
		SentimentScore: 0.55,
		Objects:        objects,
		SemanticTags:   tags,
		Category:       string(category.InferFromSignals(title, description, strings.Join(tags, " "))),
		Palette:        defaultPalette,
		Embedding:      PseudoEmbedding(file.ID+":"+file.Name, c.dimensions),
	}, nil
}

// AnalyzeBatch analyzes each file in order.
func (c *Client) AnalyzeBatch(ctx context.Context, files []museum.UploadedFileRef) ([]museum.MemoryArtifact, error) {
	artifacts := make([]museum.MemoryArtifact, 0, len(files))
	for _, file := range files {
		artifact, err := c.Analyze(ctx, file)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, *artifact)
	}
	return artifacts, nil
}

// Dimensions returns the configured embedding length.
func (c *Client) Dimensions() int {
	return c.dimensions
}

// Close is a no-op; the synthetic analyzer holds no resources.
func (c *Client) Close() error {
	return nil
}

// StableHash computes the 31-multiplier rolling hash of the input,
// truncated to 32 bits. The same string always hashes to the same value
// across processes.
func StableHash(input string) uint32 {
	var h uint32
	for _, r := range input {
		h = h*31 + uint32(r)
	}
	return h
}

// PseudoEmbedding derives a deterministic embedding from a seed string via
// a 32-bit xorshift PRNG. Components are spread over [-1, 1]. The seed
// fully determines the vector, making it a stable stand-in for a real
// model embedding.
func PseudoEmbedding(seed string, dims int) []float64 {
	x := StableHash(seed)
	if x == 0 {
		x = 1
	}

	out := make([]float64, dims)
	for i := 0; i < dims; i++ {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		out[i] = float64(x)/float64(0xffffffff)*2 - 1
	}
	return out
}

// tagsFromText lowercases the text and keeps its first four words as tags.
func tagsFromText(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return fields
}
