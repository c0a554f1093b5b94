// internal/room/code_test.go
package room

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoomCodeShape(t *testing.T) {
	code := newRoomCode(func(string) bool { return false })
	require.Len(t, code, roomCodeLength)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{6}$`), code)
}

func TestNewRoomCodeAvoidsTakenCodes(t *testing.T) {
	var first string
	code := newRoomCode(func(c string) bool {
		if first == "" {
			first = c
			return true
		}
		return false
	})
	assert.NotEqual(t, first, code)
	assert.Len(t, code, roomCodeLength)
}

func TestNormalizeRoomCode(t *testing.T) {
	assert.Equal(t, "AB12CD", normalizeRoomCode("  ab12cd "))
	assert.Equal(t, "AB12CD", normalizeRoomCode("AB12CD"))
}
