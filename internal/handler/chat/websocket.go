package chat

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/vivekdev/portfolio/backend/internal/middleware"
)

type errorFrame struct {
	Error string `json:"error"`
}

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			return middleware.OriginAllowed(allowedOrigins, origin)
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// handleWebSocket 每个入站帧是一份完整对话，每个出站帧是一条完整回复
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.replier == nil {
		http.Error(w, "ai relay unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	log.Info().Str("remote", r.RemoteAddr).Msg("chat websocket connected")

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("chat websocket read failed")
			}
			return
		}
		if messageType != websocket.TextMessage {
			if err := conn.WriteJSON(errorFrame{Error: "text frames only"}); err != nil {
				return
			}
			continue
		}

		var payload chatRequest
		if err := json.Unmarshal(data, &payload); err != nil {
			if err := conn.WriteJSON(errorFrame{Error: "invalid request body"}); err != nil {
				return
			}
			continue
		}

		var frame interface{}
		text, status, message := h.reply(ctx, payload.Messages)
		if status == http.StatusOK {
			frame = chatResponse{Response: text}
		} else {
			frame = errorFrame{Error: message}
		}

		if err := conn.WriteJSON(frame); err != nil {
			log.Warn().Err(err).Msg("chat websocket write failed")
			return
		}
	}
}
