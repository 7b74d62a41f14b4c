package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// writeJSON writes data with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}
