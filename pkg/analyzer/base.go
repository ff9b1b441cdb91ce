// Package analyzer provides interfaces for media analysis providers.
//
// A provider turns uploaded file references into memory artifacts: display
// strings, an emotion label, semantic tags, a category, and a fixed-length
// embedding vector. The pipeline itself only depends on this interface and
// works with any provider, real or synthetic.
package analyzer

import (
	"context"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// Provider defines the interface for media analysis providers.
//
// All implementations (OpenAI, synthetic) must satisfy this interface.
type Provider interface {
	// Analyze derives a memory artifact from one uploaded file.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - file: The uploaded file reference to analyze
	//
	// Returns the derived artifact and any error.
	Analyze(ctx context.Context, file museum.UploadedFileRef) (*museum.MemoryArtifact, error)

	// AnalyzeBatch derives artifacts for multiple files, preserving input
	// order in the result.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - files: Slice of uploaded file references to analyze
	//
	// Returns one artifact per file and any error.
	AnalyzeBatch(ctx context.Context, files []museum.UploadedFileRef) ([]museum.MemoryArtifact, error)

	// Dimensions returns the length of the embedding vectors this
	// provider produces. Dimensionality is consistent within a provider
	// but not globally fixed.
	Dimensions() int

	// Close closes the provider and releases resources.
	Close() error
}
