package presence

//go:generate mockgen -source=broadcaster.go -destination=mocks/mock_broadcaster.go -package=mocks

// Broadcaster delivers named events to connections. Both methods are
// fire-and-forget: implementations must not block the caller on a slow peer
// and must swallow per-recipient failures.
type Broadcaster interface {
	// SendTo delivers one event to a single connection.
	SendTo(connID string, event string, payload any)

	// SendToAllExcept delivers one event to every connection except connID.
	SendToAllExcept(connID string, event string, payload any)
}
