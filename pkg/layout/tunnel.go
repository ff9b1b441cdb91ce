package layout

import (
	"math"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/category"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// Tunnel layout constants.
const (
	// tunnelWidth/Height is the fixed cross-section of the gallery.
	tunnelWidth  = 12.0
	tunnelHeight = 4.5

	// minTunnelLength keeps even a near-empty gallery walkable.
	minTunnelLength = 24.0

	// laneSpacing is the depth between consecutive exhibit pairs.
	laneSpacing = 3.2

	// frontPadding and backPadding leave open floor before the first and
	// after the last exhibit pair.
	frontPadding = 8.0
	backPadding  = 8.0
)

// BuildTunnel lays out every artifact in a single elongated gallery whose
// depth grows with the artifact count: exhibits alternate between the left
// and right wall by index parity, and each left/right pair shares a lane
// at depth -frontPadding - lane*laneSpacing.
//
// The room label derives from preferredCategory ("Technology Museum") or
// falls back to "Memory Museum". The room style comes from the first
// cluster's emotion profile; clusters otherwise only contribute keywords,
// since the tunnel is not cluster-scoped. An empty artifact list yields an
// empty result.
func BuildTunnel(sessionID string, clusters []museum.MemoryCluster, artifacts []museum.MemoryArtifact, preferredCategory string) Result {
	result := Result{
		Rooms:    []museum.RoomNode{},
		Exhibits: []museum.ExhibitNode{},
	}
	if len(artifacts) == 0 {
		return result
	}

	pairCount := (len(artifacts) + 1) / 2
	length := math.Max(minTunnelLength, frontPadding+backPadding+float64(pairCount-1)*laneSpacing)

	style := museum.StyleMinimal
	clusterID := museum.MakeID("cluster")
	keywords := []string{}
	if preferredCategory != "" {
		keywords = append(keywords, preferredCategory)
	}
	if len(clusters) > 0 {
		style = StyleFromEmotion(clusters[0].EmotionProfile)
		clusterID = clusters[0].ID
		for i := range clusters {
			keywords = append(keywords, clusters[i].Theme)
			keywords = append(keywords, clusters[i].Tags...)
		}
	}

	room := museum.RoomNode{
		ID:        museum.MakeID("room"),
		ClusterID: clusterID,
		Center:    museum.Vec3{0, 0, -length / 2},
		Size:      museum.Vec3{tunnelWidth, tunnelHeight, length},
		Style:     style,
		Label:     category.MuseumLabel(preferredCategory),
		Keywords:  keywords,
	}
	result.Rooms = append(result.Rooms, room)

	for i := range artifacts {
		lane := i / 2
		z := -frontPadding - float64(lane)*laneSpacing

		var pos, rot museum.Vec3
		if i%2 == 0 { // left wall, facing +x
			pos = museum.Vec3{-wallSetback, exhibitHeight, z}
			rot = museum.Vec3{0, math.Pi / 2, 0}
		} else { // right wall, facing -x
			pos = museum.Vec3{wallSetback, exhibitHeight, z}
			rot = museum.Vec3{0, -math.Pi / 2, 0}
		}

		result.Exhibits = append(result.Exhibits, newExhibit(sessionID, room.ID, &artifacts[i], pos, rot))
	}

	return result
}
