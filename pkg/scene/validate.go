package scene

import (
	"math"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// Structural bounds for scene validation.
const (
	// MaxCoord bounds the absolute value of any position coordinate.
	MaxCoord = 2000.0

	// MinRoomSize and MaxRoomSize bound each room size component.
	MinRoomSize = 0.5
	MaxRoomSize = 500.0
)

// IsValid decides the structural validity of a candidate scene before it
// is accepted as a SceneDefinition, e.g. one recovered from a stale cache.
// Any violation rejects the whole candidate: there is no partial
// acceptance.
//
// The rules, all required:
//   - sessionId is a non-empty string
//   - rooms and exhibits are non-empty; connections may be empty
//   - each room has non-empty id, clusterId, and label, a known style,
//     finite bounded center and size, and size components in [0.5, 500]
//   - each exhibit has non-empty id, roomId, artifactId, title, and
//     plaque, and finite bounded position and rotation
//   - every exhibit's roomId resolves to a room in the same scene
//
// The layout engine's own construction upholds these invariants; the
// validator exists to catch cross-boundary corruption, not internal bugs.
func IsValid(candidate *museum.SceneDefinition) bool {
	if candidate == nil || candidate.SessionID == "" {
		return false
	}
	if len(candidate.Rooms) == 0 || len(candidate.Exhibits) == 0 {
		return false
	}

	roomIDs := make(map[string]struct{}, len(candidate.Rooms))
	for i := range candidate.Rooms {
		if !isValidRoom(&candidate.Rooms[i]) {
			return false
		}
		roomIDs[candidate.Rooms[i].ID] = struct{}{}
	}

	for i := range candidate.Exhibits {
		exhibit := &candidate.Exhibits[i]
		if !isValidExhibit(exhibit) {
			return false
		}
		if _, ok := roomIDs[exhibit.RoomID]; !ok {
			return false
		}
	}

	return true
}

func isValidRoom(room *museum.RoomNode) bool {
	if room.ID == "" || room.ClusterID == "" || room.Label == "" {
		return false
	}
	if !room.Style.IsValid() {
		return false
	}
	if !isBoundedVec3(room.Center) || !isBoundedVec3(room.Size) {
		return false
	}
	for _, component := range room.Size {
		if component < MinRoomSize || component > MaxRoomSize {
			return false
		}
	}
	return true
}

func isValidExhibit(exhibit *museum.ExhibitNode) bool {
	if exhibit.ID == "" || exhibit.RoomID == "" || exhibit.ArtifactID == "" {
		return false
	}
	if exhibit.Title == "" || exhibit.Plaque == "" {
		return false
	}
	return isBoundedVec3(exhibit.Position) && isBoundedVec3(exhibit.Rotation)
}

// isBoundedVec3 reports whether every component is finite and within
// [-MaxCoord, MaxCoord].
func isBoundedVec3(v museum.Vec3) bool {
	for _, component := range v {
		if math.IsNaN(component) || math.IsInf(component, 0) {
			return false
		}
		if math.Abs(component) > MaxCoord {
			return false
		}
	}
	return true
}
