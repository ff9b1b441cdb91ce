// Package session provides session state management for museum builds.
//
// It defines the in-memory Registry that serves live requests, the Store
// interface that snapshot backends (SQLite, PostgreSQL, MySQL) must
// satisfy, and the archive-entry types backing category museums.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// ErrSnapshotNotFound indicates that no snapshot exists for a session id.
var ErrSnapshotNotFound = errors.New("session snapshot not found")

// State is the complete mutable state of one museum session: uploaded
// files, derived artifacts and clusters, the selected category, and the
// most recently built scene.
type State struct {
	// CreatedAt is when the session was created.
	CreatedAt time.Time `json:"createdAt"`

	// Files lists the uploaded file references, in upload order.
	Files []museum.UploadedFileRef `json:"files"`

	// Artifacts lists the analyzed artifacts, in analysis order.
	Artifacts []museum.MemoryArtifact `json:"artifacts"`

	// Clusters lists the similarity clusters derived from Artifacts.
	Clusters []museum.MemoryCluster `json:"clusters"`

	// SelectedCategory is the preferred category for layout ordering.
	SelectedCategory string `json:"selectedCategory,omitempty"`

	// Scene is the most recently built scene, if any. Scenes are always
	// replaced wholesale, never mutated in place.
	Scene *museum.SceneDefinition `json:"scene,omitempty"`
}

// Snapshot is a persisted copy of one session's state, keyed by session
// id. Snapshot stores treat it as an opaque unit: save replaces the whole
// snapshot, load returns the whole snapshot.
type Snapshot struct {
	// SessionID identifies the owning session.
	SessionID string `json:"sessionId"`

	// State is the captured session state.
	State
}

// ArchiveEntry is one permanently archived memory, browsable by category
// independent of the session it was uploaded in. Category museums are
// rebuilt from archive entries.
type ArchiveEntry struct {
	// ID is the unique identifier of the entry.
	ID string `json:"id"`

	// Index is the monotonically increasing archive position.
	Index int64 `json:"index"`

	// Category is the catalog slug this entry is filed under.
	Category string `json:"category"`

	// Title and Description are the display strings.
	Title       string `json:"title"`
	Description string `json:"description"`

	// ImageDataURL optionally inlines the archived image for hydrating
	// category-museum exhibits.
	ImageDataURL  string `json:"imageDataUrl,omitempty"`
	ImageMimeType string `json:"imageMimeType,omitempty"`

	// Originating file attributes.
	SourceType  museum.SourceType `json:"sourceType"`
	FileID      string            `json:"fileId"`
	FileName    string            `json:"fileName"`
	FileType    string            `json:"fileType"`
	FileSize    int64             `json:"fileSize"`
	TextContent string            `json:"textContent,omitempty"`

	// Analyzed artifact attributes, preserved so a category museum can be
	// rebuilt without re-running analysis.
	ArtifactID     string    `json:"artifactId"`
	Emotion        string    `json:"emotion"`
	SentimentScore float64   `json:"sentimentScore"`
	Objects        []string  `json:"objects"`
	SemanticTags   []string  `json:"semanticTags"`
	Palette        []string  `json:"palette"`
	Embedding      []float64 `json:"embedding"`

	// CreatedAt is when the entry was archived.
	CreatedAt time.Time `json:"createdAt"`
}

// Artifact reconstructs the memory artifact this entry preserves.
func (e *ArchiveEntry) Artifact() museum.MemoryArtifact {
	return museum.MemoryArtifact{
		ID:             e.ArtifactID,
		FileID:         e.FileID,
		SourceType:     e.SourceType,
		Title:          e.Title,
		Description:    e.Description,
		Emotion:        e.Emotion,
		SentimentScore: e.SentimentScore,
		Objects:        e.Objects,
		SemanticTags:   e.SemanticTags,
		Category:       e.Category,
		Palette:        e.Palette,
		Embedding:      e.Embedding,
	}
}

// Store defines the interface for session snapshot and archive backends.
//
// All storage implementations (SQLite, PostgreSQL, MySQL) must satisfy
// this interface. Stores persist whole snapshots; partial updates are not
// part of the contract, matching the replace-wholesale lifecycle of
// scenes and session state.
type Store interface {
	// SaveSnapshot inserts or replaces the snapshot for its session id.
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error

	// LoadSnapshot returns the snapshot for a session id, or
	// ErrSnapshotNotFound if none exists.
	LoadSnapshot(ctx context.Context, sessionID string) (*Snapshot, error)

	// SaveEntry inserts an archive entry.
	SaveEntry(ctx context.Context, entry *ArchiveEntry) error

	// ListEntriesByCategory returns all archive entries filed under the
	// given category slug, ordered by archive index.
	ListEntriesByCategory(ctx context.Context, categorySlug string) ([]*ArchiveEntry, error)

	// Close closes the store and releases resources.
	Close() error
}
