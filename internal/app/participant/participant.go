/*
Package participant defines the record the relay keeps for each connected client.

A Participant is a plain value: the Registry hands out copies, so a record read
by one goroutine can never be mutated under it by another.
*/
package participant

import "time"

// DefaultNickname is used until a client names itself, and whenever a
// departing connection has no record left to read a nickname from.
const DefaultNickname = "Anonymous"

// Location is one position sample reported by a client. Values are relayed
// exactly as received; no range checks are applied.
type Location struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
}

// Participant is the last-known state of one connection.
type Participant struct {
	// ConnectionID is the relay-assigned connection identifier and the Registry key.
	ConnectionID string

	// Nickname is the display name; DefaultNickname until set.
	Nickname string

	// Location is nil until the first location update.
	Location *Location

	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time
}

// New returns the default record for a connection.
func New(connectionID string, now time.Time) Participant {
	return Participant{
		ConnectionID: connectionID,
		Nickname:     DefaultNickname,
		UpdatedAt:    now,
	}
}

// Clone returns a deep copy so callers never share the Location pointer.
func (p Participant) Clone() Participant {
	if p.Location != nil {
		loc := *p.Location
		p.Location = &loc
	}
	return p
}

// HasLocation reports whether a location sample has been received.
func (p Participant) HasLocation() bool {
	return p.Location != nil
}

// Timestamp returns UpdatedAt in Unix milliseconds, the unit used on the wire.
func (p Participant) Timestamp() int64 {
	return p.UpdatedAt.UnixMilli()
}

// View is the wire shape of a participant inside an active-users snapshot.
// Coordinates are null while no location is known.
type View struct {
	UserID    string   `json:"userId"`
	Nickname  string   `json:"nickname"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Accuracy  *float64 `json:"accuracy"`
	Timestamp int64    `json:"timestamp"`
}

// View projects the record for clients.
func (p Participant) View() View {
	v := View{
		UserID:    p.ConnectionID,
		Nickname:  p.Nickname,
		Timestamp: p.Timestamp(),
	}

	if p.Location != nil {
		lat, lng, accuracy := p.Location.Lat, p.Location.Lng, p.Location.Accuracy
		v.Lat, v.Lng, v.Accuracy = &lat, &lng, &accuracy
	}

	return v
}

// Summary is the monitoring projection served by GET /api/users.
type Summary struct {
	Nickname    string `json:"nickname"`
	HasLocation bool   `json:"hasLocation"`
	LastUpdate  int64  `json:"lastUpdate"`
}

// Summary projects the record for monitoring.
func (p Participant) Summary() Summary {
	return Summary{
		Nickname:    p.Nickname,
		HasLocation: p.HasLocation(),
		LastUpdate:  p.Timestamp(),
	}
}
