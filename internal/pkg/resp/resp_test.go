package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"georelay/internal/pkg/errs"
)

func TestRespondJSON(t *testing.T) {
	req := require.New(t)
	rec := httptest.NewRecorder()

	RespondJSON(rec, http.StatusOK, map[string]int{"totalUsers": 2})

	req.Equal(http.StatusOK, rec.Code)
	req.Equal("application/json", rec.Header().Get("Content-Type"))
	req.Equal("no-store", rec.Header().Get("Cache-Control"))
	req.JSONEq(`{"totalUsers":2}`, rec.Body.String())
}

func TestRespondError(t *testing.T) {
	req := require.New(t)
	rec := httptest.NewRecorder()

	RespondError(rec, errs.NewError(errs.ErrRateLimitExceeded))

	req.Equal(http.StatusTooManyRequests, rec.Code)

	var body JSONResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	req.Equal(errs.ErrRateLimitExceeded, body.Code)
	req.Equal("Too many requests. Please try again later.", body.Message)
}

func TestRespondError_NilIsUnknown(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondError(rec, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
