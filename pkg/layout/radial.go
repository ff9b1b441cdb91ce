package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// Radial layout constants.
const (
	// radialRoomWidth/Height/Depth is the fixed size of every cluster room.
	radialRoomWidth  = 12.0
	radialRoomHeight = 4.0
	radialRoomDepth  = 12.0

	// minRadius is the smallest circle the rooms are placed on.
	minRadius = 16.0

	// radiusPerRoom widens the circle as the cluster count grows.
	radiusPerRoom = 5.0

	// wallCapacity is how many exhibits each wall row holds before the
	// placement wraps to the next row along the wall axis.
	wallCapacity = 4

	// rowOffsetStart and rowSpacing control the along-wall offset of each
	// placement row: offset = rowOffsetStart + row*rowSpacing.
	rowOffsetStart = -4.0
	rowSpacing     = 2.1
)

// BuildRadial arranges one room per cluster on a circle of radius
// max(16, clusterCount*5), at angle 2*pi*index/clusterCount, each room
// sized 12x4x12. Within a room, member artifacts are placed on the four
// walls in round-robin order (left, right, back, front), wrapping along
// the wall axis after every fourth exhibit.
//
// If preferredCategory is non-empty, clusters whose theme or tags contain
// it (case-insensitive substring) are stably moved to the front so the
// matching room spawns first on the walking path.
//
// Dense clusters keep wrapping along the wall axis without bound checks;
// beyond 16 members per room, placements can extend past the wall edge.
// Known limitation of the radial mode; the tunnel mode grows instead.
func BuildRadial(sessionID string, clusters []museum.MemoryCluster, artifacts []museum.MemoryArtifact, preferredCategory string) Result {
	byID := artifactIndex(artifacts)

	ordered := make([]museum.MemoryCluster, len(clusters))
	copy(ordered, clusters)

	if preferredCategory != "" {
		target := strings.ToLower(preferredCategory)
		sort.SliceStable(ordered, func(i, j int) bool {
			return matchesCategory(&ordered[i], target) && !matchesCategory(&ordered[j], target)
		})
	}

	radius := math.Max(minRadius, float64(len(ordered))*radiusPerRoom)

	result := Result{
		Rooms:    []museum.RoomNode{},
		Exhibits: []museum.ExhibitNode{},
	}

	for idx := range ordered {
		c := &ordered[idx]
		angle := float64(idx) / math.Max(float64(len(ordered)), 1) * 2 * math.Pi
		center := museum.Vec3{math.Cos(angle) * radius, 0, math.Sin(angle) * radius}

		room := museum.RoomNode{
			ID:        museum.MakeID("room"),
			ClusterID: c.ID,
			Center:    center,
			Size:      museum.Vec3{radialRoomWidth, radialRoomHeight, radialRoomDepth},
			Style:     StyleFromEmotion(c.EmotionProfile),
			Label:     c.Theme,
			Keywords:  append([]string{c.Theme}, c.Tags...),
		}
		result.Rooms = append(result.Rooms, room)

		placed := 0
		for _, memberID := range c.MemberIDs {
			artifact, ok := byID[memberID]
			if !ok {
				continue
			}
			pos, rot := wallPlacement(center, placed)
			result.Exhibits = append(result.Exhibits, newExhibit(sessionID, room.ID, artifact, pos, rot))
			placed++
		}
	}

	return result
}

// matchesCategory reports whether the cluster's theme or tags contain the
// lowercased target as a substring.
func matchesCategory(c *museum.MemoryCluster, target string) bool {
	haystack := strings.ToLower(strings.Join(append([]string{c.Theme}, c.Tags...), " "))
	return strings.Contains(haystack, target)
}

// wallPlacement computes the position and facing rotation of the itemIdx-th
// exhibit in a room centered at center. Walls cycle left, right, back,
// front; each full cycle shifts the row offset along the wall axis so
// neighboring exhibits do not overlap.
func wallPlacement(center museum.Vec3, itemIdx int) (museum.Vec3, museum.Vec3) {
	wall := itemIdx % wallCapacity
	offset := rowOffsetStart + float64(itemIdx/wallCapacity)*rowSpacing

	switch wall {
	case 0: // left wall, facing +x
		return museum.Vec3{center[0] - wallSetback, exhibitHeight, center[2] + offset},
			museum.Vec3{0, math.Pi / 2, 0}
	case 1: // right wall, facing -x
		return museum.Vec3{center[0] + wallSetback, exhibitHeight, center[2] + offset},
			museum.Vec3{0, -math.Pi / 2, 0}
	case 2: // back wall, facing +z
		return museum.Vec3{center[0] + offset, exhibitHeight, center[2] - wallSetback},
			museum.Vec3{0, 0, 0}
	default: // front wall, facing -z
		return museum.Vec3{center[0] + offset, exhibitHeight, center[2] + wallSetback},
			museum.Vec3{0, math.Pi, 0}
	}
}
