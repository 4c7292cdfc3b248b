package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewError_FormatsTemplate(t *testing.T) {
	req := require.New(t)

	err := NewError(ErrUnsupportedEvent, "teleport")

	req.Equal(ErrUnsupportedEvent, err.Code)
	req.Equal(`Unsupported event type "teleport".`, err.Message)
	req.Equal(http.StatusOK, err.Status)
}

func TestNewError_UnknownCodeFallsBack(t *testing.T) {
	err := NewError(42)

	require.Equal(t, ErrUnknown, err.Code)
	require.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestNewError_DoesNotMutateTemplate(t *testing.T) {
	_ = NewError(ErrInvalidPayload, "location-update")

	require.Equal(t, "Invalid payload for event %q.", errorMap[ErrInvalidPayload].Message)
}

func TestWrap_UnwrapsCause(t *testing.T) {
	req := require.New(t)
	cause := errors.New("lat is required")

	err := Wrap(cause, ErrInvalidPayload, "location-update")

	req.ErrorIs(err, cause)
	req.Contains(err.Error(), "lat is required")
	req.Equal(ErrInvalidPayload, CodeOf(fmt.Errorf("dispatch: %w", err)))
	req.Equal(ErrUnknown, CodeOf(cause))
}
