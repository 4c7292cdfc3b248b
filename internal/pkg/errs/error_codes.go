/*
Package errs provides custom error types and application-level error code constants.

These codes identify request and protocol failures both in logs and in the
JSON bodies returned by the HTTP surface.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates that a JSON body or frame could not be decoded.
	ErrInvalidJSONFormat = 1003

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007

	// ErrOriginNotAllowed indicates that the WebSocket handshake came from a disallowed origin.
	ErrOriginNotAllowed = 1008
)

// 2xxx: Relay Protocol Errors
const (
	// ErrUnsupportedEvent indicates that a client sent an event type the relay does not handle.
	ErrUnsupportedEvent = 2001

	// ErrInvalidPayload indicates that an event payload is missing a required field.
	ErrInvalidPayload = 2002
)

// 4xxx: Routing Errors
const (
	// ErrNotFound indicates that no route matched the request.
	ErrNotFound = 4004
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
