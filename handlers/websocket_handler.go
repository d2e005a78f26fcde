package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/tournament-engine/realtime"
)

type WebSocketHandler struct {
	responder
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" allows any
// origin.
func NewWebSocketHandler(hub *realtime.Hub, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	anyOrigin := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		responder: responder{logger: logger},
		hub:       hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWs joins the client to the room of one tournament. Clients connect to
// /ws/tournaments/{tournamentID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Warn("websocket upgrade failed", slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	roomID := realtime.RoomForTournament(tournamentID)
	client := realtime.NewClient(h.hub, conn, roomID)
	if !h.hub.Join(client) {
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("websocket client joined", slog.String("room", roomID))
}
