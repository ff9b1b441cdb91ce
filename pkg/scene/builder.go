// Package scene assembles layout output into a complete SceneDefinition
// and validates candidate scenes before they are trusted by consumers.
package scene

import (
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/layout"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// Build runs the layout for the given mode and wraps the result with
// room-to-room connection edges: for N rooms, N-1 edges linking room[i]
// to room[i+1] in array order. Zero or one room yields zero edges.
//
// The connection graph is deliberately a simple chain rather than a full
// graph: multi-room navigation is linear, matching the radial
// arrangement's natural walking order.
//
// Every call constructs a fresh SceneDefinition; scenes are replaced
// wholesale, never mutated in place.
func Build(mode layout.Mode, sessionID string, clusters []museum.MemoryCluster, artifacts []museum.MemoryArtifact, preferredCategory string) *museum.SceneDefinition {
	result := layout.Build(mode, sessionID, clusters, artifacts, preferredCategory)

	connections := make([]museum.ConnectionEdge, 0)
	for i := 1; i < len(result.Rooms); i++ {
		connections = append(connections, museum.ConnectionEdge{
			FromRoomID: result.Rooms[i-1].ID,
			ToRoomID:   result.Rooms[i].ID,
		})
	}

	return &museum.SceneDefinition{
		SessionID:   sessionID,
		Rooms:       result.Rooms,
		Exhibits:    result.Exhibits,
		Connections: connections,
	}
}
