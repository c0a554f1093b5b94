package room

import (
	"strings"

	"github.com/google/uuid"
)

// roomCodeLength is the length of the shareable room code.
const roomCodeLength = 6

// newRoomCode derives a 6-character uppercase code from a fresh UUID. The
// first 6 characters of a UUID string are hex digits, so the code is
// always alphanumeric. taken reports codes already in use so the result is
// unique among live rooms.
func newRoomCode(taken func(code string) bool) string {
	for {
		code := strings.ToUpper(uuid.NewString()[:roomCodeLength])
		if !taken(code) {
			return code
		}
	}
}

// normalizeRoomCode maps user input onto the canonical code form.
func normalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
