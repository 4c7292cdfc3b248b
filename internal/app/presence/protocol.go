package presence

import "georelay/internal/app/participant"

// Client -> server events.
const (
	EventSetNickname    = "set-nickname"
	EventUpdateNickname = "update-nickname"
	EventLocationUpdate = "location-update"
	EventStopSharing    = "stop-sharing"
)

// Server -> client events.
const (
	EventActiveUsers     = "active-users"
	EventUserJoined      = "user-joined"
	EventNicknameUpdated = "nickname-updated"
	EventUserLocation    = "user-location"
	EventUserLeft        = "user-left"
)

// UpdateNicknameRequest is the update-nickname payload.
type UpdateNicknameRequest struct {
	NewNickname string `json:"newNickname" validate:"required"`
}

// LocationUpdateRequest is the location-update payload. Coordinates are
// required but not range checked.
type LocationUpdateRequest struct {
	Lat      *float64 `json:"lat" validate:"required"`
	Lng      *float64 `json:"lng" validate:"required"`
	Accuracy *float64 `json:"accuracy" validate:"required"`
	Nickname string   `json:"nickname,omitempty"`
}

// Location converts the validated request into a record location.
func (r LocationUpdateRequest) Location() participant.Location {
	return participant.Location{Lat: *r.Lat, Lng: *r.Lng, Accuracy: *r.Accuracy}
}

// ActiveUsersPayload is sent to a participant right after it sets its identity.
type ActiveUsersPayload []participant.View

// UserJoinedPayload announces a participant that set its identity.
type UserJoinedPayload struct {
	UserID    string `json:"userId"`
	Nickname  string `json:"nickname"`
	Timestamp int64  `json:"timestamp"`
}

// NicknameUpdatedPayload announces a rename.
type NicknameUpdatedPayload struct {
	UserID      string `json:"userId"`
	OldNickname string `json:"oldNickname"`
	Nickname    string `json:"nickname"`
}

// UserLocationPayload carries a participant's latest position.
type UserLocationPayload struct {
	UserID    string  `json:"userId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Accuracy  float64 `json:"accuracy"`
	Nickname  string  `json:"nickname"`
	Timestamp int64   `json:"timestamp"`
}

// UserLeftPayload announces a departure.
type UserLeftPayload struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
}
