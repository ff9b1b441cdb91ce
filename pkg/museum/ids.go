package museum

import (
	"strings"

	"github.com/google/uuid"
)

// MakeID generates a prefixed random identifier of the form
// "<prefix>_<12 hex chars>", e.g. "room_3f1a9b2c4d5e".
//
// IDs are unique per call; the short hex tail keeps scene payloads and
// logs readable.
func MakeID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:12]
}
