package game

import "strings"

// LineTerminator ends every line sent to a player.
const LineTerminator = "\r\n"

// Terminate gives payload as a line ending in exactly one LineTerminator. A
// terminator already present is kept, and a bare trailing "\n" is upgraded to
// a full one.
func Terminate(payload string) []byte {
	switch {
	case strings.HasSuffix(payload, LineTerminator):
		return []byte(payload)
	case strings.HasSuffix(payload, "\n"):
		return []byte(payload[:len(payload)-1] + LineTerminator)
	default:
		return []byte(payload + LineTerminator)
	}
}
