/*
Package randx generates identifiers for the relay.

Connection identifiers are UUID v4 strings assigned when a WebSocket is accepted.
*/
package randx

import (
	"github.com/google/uuid"
)

// ConnectionID returns a fresh identifier for an accepted connection.
func ConnectionID() string {
	return uuid.NewString()
}

// IsValidConnectionID reports whether id looks like an identifier produced by ConnectionID.
func IsValidConnectionID(id string) bool {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	return parsed.Version() == 4 && parsed.String() == id
}
