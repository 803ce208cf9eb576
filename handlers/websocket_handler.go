package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/Dosada05/tournament-recorder/brackets"
	"github.com/Dosada05/tournament-recorder/models"
	"github.com/Dosada05/tournament-recorder/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub      *brackets.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler accepts connections whose Origin is in allowedOrigins.
// "*" allows any origin.
func NewWebSocketHandler(hub *brackets.Hub, allowedOrigins []string) *WebSocketHandler {
	allowAll := slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				origin := r.Header.Get("Origin")
				// Не браузер: заголовка Origin нет.
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeDate godoc
// @Summary Live feed of matches and snapshots for a date
// @Description Upgrades to a websocket. Each recorded match or saved snapshot for the date is pushed as {"type","payload","room_id"}.
// @Tags live
// @Param date path string true "Date (YYYY-MM-DD)"
// @Failure 400 {object} map[string]string
// @Router /ws/dates/{date} [get]
func (h *WebSocketHandler) ServeDate(w http.ResponseWriter, r *http.Request) {
	date, err := models.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	roomID := services.DateRoom(date)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту, так что здесь просто логируем.
		slog.WarnContext(r.Context(), "failed to upgrade websocket", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	client := brackets.NewClient(h.hub, conn, roomID)
	if !h.hub.Join(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	slog.DebugContext(r.Context(), "websocket client joined", slog.String("room", roomID))
}
