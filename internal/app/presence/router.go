package presence

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"georelay/internal/app/participant"
	"georelay/internal/pkg/errs"
	"georelay/internal/pkg/logx"
)

// Router binds client events to Registry mutations and the resulting
// broadcasts. It keeps no state of its own; every event is handled against
// the current Registry contents. Events from one connection are expected to
// arrive serially, events from different connections concurrently.
type Router struct {
	registry *Registry
	out      Broadcaster
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewRouter constructs a Router over an injected Registry and Broadcaster.
func NewRouter(registry *Registry, out Broadcaster) *Router {
	return &Router{
		registry: registry,
		out:      out,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logx.Component("Router"),
	}
}

// Registry returns the Registry the Router mutates.
func (r *Router) Registry() *Registry {
	return r.registry
}

// Connect notes a newly accepted connection. No record is created and nothing
// is broadcast: a participant becomes visible with its first event, which
// every open connection observes.
func (r *Router) Connect(connID string) {
	r.logger.Info().
		Str("conn_id", connID).
		Int("active_users", r.registry.Len()).
		Msg("Participant connected.")
}

// Dispatch decodes one client event and runs its handler. A malformed payload
// or unknown event type returns a coded error and leaves the Registry untouched.
func (r *Router) Dispatch(connID string, eventType string, payload json.RawMessage) error {
	switch eventType {
	case EventSetNickname:
		r.SetIdentity(connID, decodeNickname(payload))
		return nil

	case EventUpdateNickname:
		var req UpdateNicknameRequest
		if err := r.decode(eventType, payload, &req); err != nil {
			return err
		}
		r.Rename(connID, req.NewNickname)
		return nil

	case EventLocationUpdate:
		var req LocationUpdateRequest
		if err := r.decode(eventType, payload, &req); err != nil {
			return err
		}
		r.UpdateLocation(connID, req)
		return nil

	case EventStopSharing:
		r.StopSharing(connID)
		return nil

	default:
		return errs.NewError(errs.ErrUnsupportedEvent, eventType)
	}
}

// decode unmarshals payload into dst and runs struct validation on it.
func (r *Router) decode(eventType string, payload json.RawMessage, dst any) error {
	if len(payload) == 0 {
		return errs.NewError(errs.ErrInvalidPayload, eventType)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return errs.Wrap(err, errs.ErrInvalidPayload, eventType)
	}

	if err := r.validate.Struct(dst); err != nil {
		return errs.Wrap(err, errs.ErrInvalidPayload, eventType)
	}

	return nil
}

// decodeNickname accepts a JSON string; null, absent or non-string payloads
// yield the empty string, which SetIdentity turns into DefaultNickname.
func decodeNickname(payload json.RawMessage) string {
	var nickname string
	if len(payload) == 0 {
		return ""
	}
	if err := json.Unmarshal(payload, &nickname); err != nil {
		return ""
	}
	return nickname
}

// SetIdentity sets the nickname, sends the sender a snapshot of everyone else
// and announces the sender to everyone else.
func (r *Router) SetIdentity(connID string, nickname string) {
	if nickname == "" {
		nickname = participant.DefaultNickname
	}

	record := r.registry.Upsert(connID, func(p *participant.Participant) {
		p.Nickname = nickname
	})

	others := r.registry.SnapshotOthers(connID)
	snapshot := make(ActiveUsersPayload, 0, len(others))
	for _, p := range others {
		snapshot = append(snapshot, p.View())
	}

	r.out.SendTo(connID, EventActiveUsers, snapshot)
	r.out.SendToAllExcept(connID, EventUserJoined, UserJoinedPayload{
		UserID:    connID,
		Nickname:  record.Nickname,
		Timestamp: record.Timestamp(),
	})

	r.logger.Info().
		Str("conn_id", connID).
		Str("nickname", record.Nickname).
		Int("others", len(snapshot)).
		Msg("Participant set nickname.")
}

// Rename replaces the nickname and announces old and new values.
func (r *Router) Rename(connID string, newNickname string) {
	var oldNickname string

	r.registry.Upsert(connID, func(p *participant.Participant) {
		oldNickname = p.Nickname
		p.Nickname = newNickname
	})

	r.out.SendToAllExcept(connID, EventNicknameUpdated, NicknameUpdatedPayload{
		UserID:      connID,
		OldNickname: oldNickname,
		Nickname:    newNickname,
	})

	r.logger.Info().
		Str("conn_id", connID).
		Str("old_nickname", oldNickname).
		Str("nickname", newNickname).
		Msg("Participant changed nickname.")
}

// UpdateLocation replaces the stored location, adopts the optional nickname
// override and relays the sample to everyone else.
func (r *Router) UpdateLocation(connID string, req LocationUpdateRequest) {
	loc := req.Location()

	record := r.registry.Upsert(connID, func(p *participant.Participant) {
		p.Location = &loc
		if req.Nickname != "" {
			p.Nickname = req.Nickname
		}
	})

	r.out.SendToAllExcept(connID, EventUserLocation, UserLocationPayload{
		UserID:    connID,
		Lat:       loc.Lat,
		Lng:       loc.Lng,
		Accuracy:  loc.Accuracy,
		Nickname:  record.Nickname,
		Timestamp: record.Timestamp(),
	})

	r.logger.Debug().
		Str("conn_id", connID).
		Str("nickname", record.Nickname).
		Float64("lat", loc.Lat).
		Float64("lng", loc.Lng).
		Int("active_users", r.registry.Len()).
		Msg("Location update.")
}

// StopSharing removes the participant while its connection stays open.
// A later event from the same connection re-inserts it.
func (r *Router) StopSharing(connID string) {
	r.depart(connID, "Participant stopped sharing.")
}

// Disconnect runs the same cleanup as StopSharing when the transport reports
// the connection closed, whether or not the client ever sent an event.
func (r *Router) Disconnect(connID string) {
	r.depart(connID, "Participant disconnected.")
}

// depart removes the record and announces the departure. An absent record
// still produces a user-left with DefaultNickname.
func (r *Router) depart(connID string, msg string) {
	nickname := participant.DefaultNickname
	if record, ok := r.registry.Remove(connID); ok {
		nickname = record.Nickname
	}

	r.out.SendToAllExcept(connID, EventUserLeft, UserLeftPayload{
		UserID:   connID,
		Nickname: nickname,
	})

	r.logger.Info().
		Str("conn_id", connID).
		Str("nickname", nickname).
		Int("active_users", r.registry.Len()).
		Msg(msg)
}
