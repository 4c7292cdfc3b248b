/*
Package resp provides helpers for writing the relay's standardized JSON responses.

Error bodies have the shape {code, message}, where code is an errs code.
Successful bodies are written bare with RespondJSON.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"georelay/internal/pkg/errs"
	"georelay/internal/pkg/logx"
)

// JSONResponse is the error envelope.
type JSONResponse struct {
	// Code is an errs code.
	Code int `json:"code"`

	// Message is the client-facing error description.
	Message string `json:"message"`
}

// RespondJSON sets the JSON headers and writes payload with the given status.
func RespondJSON(w http.ResponseWriter, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")

	body, err := json.Marshal(payload)
	if err != nil {
		logx.Error(err, "Error encoding JSON response", "http_status", httpStatus)
		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	if _, err := w.Write(body); err != nil {
		logx.Warn("Failed to write JSON response", "error", err.Error())
	}
}

// RespondError writes the error's code and message with its HTTP status.
func RespondError(w http.ResponseWriter, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	RespondJSON(w, customErr.Status, JSONResponse{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}
