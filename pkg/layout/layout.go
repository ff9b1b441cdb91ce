// Package layout places memory clusters and artifacts into 3D space,
// producing room volumes and wall-mounted exhibit placements.
//
// Two modes are supported: ModeRadial arranges one room per cluster on a
// circle, ModeTunnel stretches a single elongated gallery that grows with
// the artifact count. Both are deterministic given the same inputs.
package layout

import (
	"fmt"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// Mode selects the spatial arrangement strategy.
type Mode string

const (
	// ModeRadial lays out one room per cluster on a circle. This is the
	// canonical mode for per-session museums.
	ModeRadial Mode = "radial"

	// ModeTunnel lays out all artifacts in one adaptive tunnel gallery,
	// used for whole-category and whole-gallery views.
	ModeTunnel Mode = "tunnel"
)

// IsValid reports whether m is a known layout mode.
func (m Mode) IsValid() bool {
	return m == ModeRadial || m == ModeTunnel
}

// Result is the output of a layout pass: rooms plus one exhibit per
// placed artifact. An empty input yields an empty result, which callers
// must treat as "nothing to render", not an error.
type Result struct {
	Rooms    []museum.RoomNode    `json:"rooms"`
	Exhibits []museum.ExhibitNode `json:"exhibits"`
}

// Exhibit placement constants shared by both modes.
const (
	// exhibitHeight is the mounting height of every exhibit.
	exhibitHeight = 1.8

	// wallSetback is how far an exhibit sits from the room center toward
	// a wall, leaving it flush against the interior wall plane of a
	// 12-unit-wide room.
	wallSetback = 5.8
)

// Build runs the layout for the given mode. Unknown modes fall back to
// ModeRadial.
func Build(mode Mode, sessionID string, clusters []museum.MemoryCluster, artifacts []museum.MemoryArtifact, preferredCategory string) Result {
	if mode == ModeTunnel {
		return BuildTunnel(sessionID, clusters, artifacts, preferredCategory)
	}
	return BuildRadial(sessionID, clusters, artifacts, preferredCategory)
}

// AssetPath returns the asset-resolver path for an image artifact. The
// consuming endpoint interprets it using the session and file ids; the
// layout engine never fetches or validates the resource.
func AssetPath(sessionID, fileID string) string {
	return fmt.Sprintf("/api/upload?sessionId=%s&id=%s", sessionID, fileID)
}

// newExhibit constructs the exhibit node for one artifact placement.
// Image-sourced artifacts get an asset path; everything else renders the
// description as a text fallback.
func newExhibit(sessionID, roomID string, artifact *museum.MemoryArtifact, position, rotation museum.Vec3) museum.ExhibitNode {
	assetURL := ""
	if artifact.SourceType == museum.SourceImage {
		assetURL = AssetPath(sessionID, artifact.FileID)
	}

	return museum.ExhibitNode{
		ID:           museum.MakeID("exhibit"),
		RoomID:       roomID,
		ArtifactID:   artifact.ID,
		AssetURL:     assetURL,
		TextFallback: artifact.Description,
		Position:     position,
		Rotation:     rotation,
		Plaque:       artifact.Description,
		Title:        artifact.Title,
	}
}

// artifactIndex builds an id lookup over the artifact slice.
func artifactIndex(artifacts []museum.MemoryArtifact) map[string]*museum.MemoryArtifact {
	byID := make(map[string]*museum.MemoryArtifact, len(artifacts))
	for i := range artifacts {
		byID[artifacts[i].ID] = &artifacts[i]
	}
	return byID
}
