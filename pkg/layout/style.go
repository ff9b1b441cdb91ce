package layout

import (
	"strings"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// StyleFromEmotion maps a free-text emotion label to a room style via
// keyword matching. Unrecognized emotions fall back to the minimal style.
func StyleFromEmotion(emotion string) museum.RoomStyle {
	e := strings.ToLower(emotion)
	switch {
	case strings.Contains(e, "joy"):
		return museum.StyleJoy
	case strings.Contains(e, "warm"), strings.Contains(e, "nostalgia"):
		return museum.StyleWarm
	case strings.Contains(e, "chaos"), strings.Contains(e, "anx"):
		return museum.StyleChaotic
	case strings.Contains(e, "calm"), strings.Contains(e, "serene"):
		return museum.StyleCalm
	default:
		return museum.StyleMinimal
	}
}
