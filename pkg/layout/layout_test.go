package layout_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/layout"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

func fixtureCluster(id, theme string, tags []string, memberIDs []string) museum.MemoryCluster {
	return museum.MemoryCluster{
		ID:             id,
		Theme:          theme,
		EmotionProfile: "joy",
		Centroid:       []float64{0.1},
		MemberIDs:      memberIDs,
		Tags:           tags,
	}
}

func fixtureArtifact(id, fileID string, source museum.SourceType) museum.MemoryArtifact {
	return museum.MemoryArtifact{
		ID:          id,
		FileID:      fileID,
		SourceType:  source,
		Title:       "Title " + id,
		Description: "Description " + id,
		Emotion:     "joy",
		Embedding:   []float64{0.1},
	}
}

func TestModeIsValid(t *testing.T) {
	assert.True(t, layout.ModeRadial.IsValid())
	assert.True(t, layout.ModeTunnel.IsValid())
	assert.False(t, layout.Mode("spiral").IsValid())
}

func TestAssetPath(t *testing.T) {
	path := layout.AssetPath("session_abc", "file_xyz")
	assert.Equal(t, "/api/upload?sessionId=session_abc&id=file_xyz", path)
}

func TestBuildRadial_RoomGeometry(t *testing.T) {
	clusters := []museum.MemoryCluster{
		fixtureCluster("c1", "beach memories", []string{"beach"}, []string{"a1"}),
		fixtureCluster("c2", "city memories", []string{"city"}, []string{"a2"}),
	}
	artifacts := []museum.MemoryArtifact{
		fixtureArtifact("a1", "f1", museum.SourceImage),
		fixtureArtifact("a2", "f2", museum.SourceText),
	}

	result := layout.BuildRadial("sess", clusters, artifacts, "")
	require.Len(t, result.Rooms, 2)
	require.Len(t, result.Exhibits, 2)

	for _, room := range result.Rooms {
		assert.Equal(t, museum.Vec3{12, 4, 12}, room.Size)
	}

	// Two rooms sit on a circle of radius max(16, 2*5) = 16.
	assert.InDelta(t, 16.0, result.Rooms[0].Center[0], 1e-9)
	assert.InDelta(t, 0.0, result.Rooms[0].Center[2], 1e-9)
	assert.InDelta(t, -16.0, result.Rooms[1].Center[0], 1e-9)
	assert.InDelta(t, 0.0, result.Rooms[1].Center[2], 1e-6)
}

func TestBuildRadial_RadiusGrowsWithClusters(t *testing.T) {
	clusters := make([]museum.MemoryCluster, 5)
	for i := range clusters {
		clusters[i] = fixtureCluster("c", "theme", nil, nil)
	}

	result := layout.BuildRadial("sess", clusters, nil, "")
	require.Len(t, result.Rooms, 5)

	// 5 clusters * 5 units > minimum 16: the first room sits at x = 25.
	assert.InDelta(t, 25.0, result.Rooms[0].Center[0], 1e-9)
}

func TestBuildRadial_FirstExhibitPlacement(t *testing.T) {
	clusters := []museum.MemoryCluster{
		fixtureCluster("c1", "beach memories", []string{"beach"}, []string{"a1"}),
	}
	artifacts := []museum.MemoryArtifact{
		fixtureArtifact("a1", "f1", museum.SourceImage),
	}

	result := layout.BuildRadial("sess", clusters, artifacts, "")
	require.Len(t, result.Rooms, 1)
	require.Len(t, result.Exhibits, 1)

	room := result.Rooms[0]
	exhibit := result.Exhibits[0]

	// First placement: left wall, setback 5.8, mount height 1.8, row
	// offset -4 along the wall axis.
	assert.InDelta(t, room.Center[0]-5.8, exhibit.Position[0], 1e-9)
	assert.InDelta(t, 1.8, exhibit.Position[1], 1e-9)
	assert.InDelta(t, room.Center[2]-4.0, exhibit.Position[2], 1e-9)
	assert.InDelta(t, math.Pi/2, exhibit.Rotation[1], 1e-9)

	assert.Equal(t, room.ID, exhibit.RoomID)
	assert.Equal(t, "a1", exhibit.ArtifactID)
	assert.Contains(t, exhibit.AssetURL, "sess")
	assert.Contains(t, exhibit.AssetURL, "f1")
	assert.Equal(t, "Description a1", exhibit.Plaque)
}

func TestBuildRadial_WallRoundRobin(t *testing.T) {
	memberIDs := []string{"a1", "a2", "a3", "a4", "a5"}
	clusters := []museum.MemoryCluster{
		fixtureCluster("c1", "theme", nil, memberIDs),
	}
	artifacts := make([]museum.MemoryArtifact, len(memberIDs))
	for i, id := range memberIDs {
		artifacts[i] = fixtureArtifact(id, "f"+id, museum.SourceText)
	}

	result := layout.BuildRadial("sess", clusters, artifacts, "")
	require.Len(t, result.Exhibits, 5)

	center := result.Rooms[0].Center

	// Walls cycle left, right, back, front.
	assert.InDelta(t, center[0]-5.8, result.Exhibits[0].Position[0], 1e-9)
	assert.InDelta(t, center[0]+5.8, result.Exhibits[1].Position[0], 1e-9)
	assert.InDelta(t, center[2]-5.8, result.Exhibits[2].Position[2], 1e-9)
	assert.InDelta(t, center[2]+5.8, result.Exhibits[3].Position[2], 1e-9)

	// The fifth exhibit wraps back to the left wall one row further.
	assert.InDelta(t, center[0]-5.8, result.Exhibits[4].Position[0], 1e-9)
	assert.InDelta(t, center[2]-4.0+2.1, result.Exhibits[4].Position[2], 1e-9)
}

func TestBuildRadial_PreferredCategoryFirst(t *testing.T) {
	clusters := []museum.MemoryCluster{
		fixtureCluster("c1", "beach memories", []string{"beach"}, nil),
		fixtureCluster("c2", "technology memories", []string{"technology"}, nil),
	}

	result := layout.BuildRadial("sess", clusters, nil, "technology")
	require.Len(t, result.Rooms, 2)
	assert.Equal(t, "technology memories", result.Rooms[0].Label)
	assert.Equal(t, "beach memories", result.Rooms[1].Label)
}

func TestBuildRadial_SkipsUnknownMembers(t *testing.T) {
	clusters := []museum.MemoryCluster{
		fixtureCluster("c1", "theme", nil, []string{"a1", "missing"}),
	}
	artifacts := []museum.MemoryArtifact{
		fixtureArtifact("a1", "f1", museum.SourceText),
	}

	result := layout.BuildRadial("sess", clusters, artifacts, "")
	assert.Len(t, result.Exhibits, 1)
}

func TestBuildTunnel_Empty(t *testing.T) {
	result := layout.BuildTunnel("sess", nil, nil, "")
	assert.Empty(t, result.Rooms)
	assert.Empty(t, result.Exhibits)
}

func TestBuildTunnel_Geometry(t *testing.T) {
	clusters := []museum.MemoryCluster{
		fixtureCluster("c1", "tech memories", []string{"tech"}, []string{"a1", "a2", "a3"}),
	}
	artifacts := []museum.MemoryArtifact{
		fixtureArtifact("a1", "f1", museum.SourceImage),
		fixtureArtifact("a2", "f2", museum.SourceText),
		fixtureArtifact("a3", "f3", museum.SourceText),
	}

	result := layout.BuildTunnel("sess", clusters, artifacts, "technology")
	require.Len(t, result.Rooms, 1)
	require.Len(t, result.Exhibits, 3)

	room := result.Rooms[0]
	// 3 artifacts form 2 pairs: 8+8+1*3.2 = 19.2, below the 24 minimum.
	assert.Equal(t, museum.Vec3{12, 4.5, 24}, room.Size)
	assert.Equal(t, museum.Vec3{0, 0, -12}, room.Center)
	assert.Equal(t, "Technology Museum", room.Label)
	assert.Equal(t, "c1", room.ClusterID)

	// Exhibits alternate walls by parity and share lanes pairwise.
	assert.Equal(t, museum.Vec3{-5.8, 1.8, -8}, result.Exhibits[0].Position)
	assert.Equal(t, museum.Vec3{5.8, 1.8, -8}, result.Exhibits[1].Position)
	assert.InDelta(t, -5.8, result.Exhibits[2].Position[0], 1e-9)
	assert.InDelta(t, -8-3.2, result.Exhibits[2].Position[2], 1e-9)

	assert.InDelta(t, math.Pi/2, result.Exhibits[0].Rotation[1], 1e-9)
	assert.InDelta(t, -math.Pi/2, result.Exhibits[1].Rotation[1], 1e-9)
}

func TestBuildTunnel_LengthGrowsWithArtifacts(t *testing.T) {
	artifacts := make([]museum.MemoryArtifact, 10)
	for i := range artifacts {
		artifacts[i] = fixtureArtifact("a"+string(rune('0'+i)), "f", museum.SourceText)
	}

	result := layout.BuildTunnel("sess", nil, artifacts, "")
	require.Len(t, result.Rooms, 1)

	// 10 artifacts form 5 pairs: 8+8+4*3.2 = 28.8 > 24.
	assert.InDelta(t, 28.8, result.Rooms[0].Size[2], 1e-9)
	assert.InDelta(t, -14.4, result.Rooms[0].Center[2], 1e-9)
}

func TestBuildTunnel_DefaultLabel(t *testing.T) {
	artifacts := []museum.MemoryArtifact{
		fixtureArtifact("a1", "f1", museum.SourceText),
	}

	result := layout.BuildTunnel("sess", nil, artifacts, "")
	require.Len(t, result.Rooms, 1)
	assert.Equal(t, "Memory Museum", result.Rooms[0].Label)
	assert.Equal(t, museum.StyleMinimal, result.Rooms[0].Style)
	assert.True(t, strings.HasPrefix(result.Rooms[0].ClusterID, "cluster_"))
}

func TestBuild_DispatchesByMode(t *testing.T) {
	clusters := []museum.MemoryCluster{
		fixtureCluster("c1", "theme", nil, []string{"a1"}),
	}
	artifacts := []museum.MemoryArtifact{
		fixtureArtifact("a1", "f1", museum.SourceText),
	}

	radial := layout.Build(layout.ModeRadial, "sess", clusters, artifacts, "")
	tunnel := layout.Build(layout.ModeTunnel, "sess", clusters, artifacts, "")
	fallback := layout.Build(layout.Mode("spiral"), "sess", clusters, artifacts, "")

	assert.Equal(t, museum.Vec3{12, 4, 12}, radial.Rooms[0].Size)
	assert.Equal(t, museum.Vec3{12, 4.5, 24}, tunnel.Rooms[0].Size)
	assert.Equal(t, museum.Vec3{12, 4, 12}, fallback.Rooms[0].Size)
}

func TestStyleFromEmotion(t *testing.T) {
	tests := []struct {
		name     string
		emotion  string
		expected museum.RoomStyle
	}{
		{name: "joy", emotion: "joy", expected: museum.StyleJoy},
		{name: "nostalgia", emotion: "warm nostalgia", expected: museum.StyleWarm},
		{name: "calm", emotion: "calm reflection", expected: museum.StyleCalm},
		{name: "anxious", emotion: "anxious energy", expected: museum.StyleChaotic},
		{name: "unknown", emotion: "wonder", expected: museum.StyleMinimal},
		{name: "empty", emotion: "", expected: museum.StyleMinimal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, layout.StyleFromEmotion(tt.emotion))
		})
	}
}
