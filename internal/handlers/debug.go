package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/calebsw/unoroom/internal/room"
)

// DebugRoomsHandler serves GET /debug/rooms, a plain JSON listing of every
// live room for operational poking.
func DebugRoomsHandler(reg *room.Registry, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reg.DebugRooms()); err != nil {
			logger.WithError(err).Error("failed to encode debug rooms")
		}
	}
}
