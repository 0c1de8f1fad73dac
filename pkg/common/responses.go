package common

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// MessageResponse is the confirmation body returned by deletes
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondJSON writes data as the JSON response body
func RespondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// RespondMessage writes a confirmation message
func RespondMessage(w http.ResponseWriter, logger *zap.Logger, message string) {
	RespondJSON(w, logger, http.StatusOK, MessageResponse{Message: message})
}

// DecodeJSON decodes a request body into v, limiting the body to maxBytes.
// Unknown fields are ignored so clients can send back whole records.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}
