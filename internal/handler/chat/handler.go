package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	chatmodel "github.com/vivekdev/portfolio/backend/internal/model/chat"
	"github.com/vivekdev/portfolio/backend/internal/service/relay"
	"github.com/vivekdev/portfolio/backend/pkg/utils"
)

// Replier 根据完整对话生成一条回复
type Replier interface {
	Reply(ctx context.Context, transcript []chatmodel.Message) (string, error)
}

// Handler 聊天中继的HTTP与WebSocket处理器
type Handler struct {
	replier  Replier
	upgrader websocket.Upgrader
}

// New 创建聊天处理器；replier 为 nil 时路由返回 503
func New(replier Replier, allowedOrigins []string) *Handler {
	return &Handler{
		replier:  replier,
		upgrader: newUpgrader(allowedOrigins),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/ws", h.handleWebSocket)
}

type chatRequest struct {
	Messages []chatmodel.Message `json:"messages"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// handleChat 处理一次性聊天请求
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if h.replier == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai relay unavailable")
		return
	}

	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, status, message := h.reply(r.Context(), payload.Messages)
	if status != http.StatusOK {
		utils.RespondError(w, status, message)
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{Response: text})
}

// reply 调用中继并把错误映射为状态码与对外文案
func (h *Handler) reply(ctx context.Context, messages []chatmodel.Message) (string, int, string) {
	for _, msg := range messages {
		if !msg.Role.Valid() {
			return "", http.StatusBadRequest, "invalid message role"
		}
	}

	text, err := h.replier.Reply(ctx, messages)
	switch {
	case err == nil:
		return text, http.StatusOK, ""
	case errors.Is(err, relay.ErrMissingUserMessage):
		return "", http.StatusBadRequest, "No user message found"
	default:
		log.Error().Err(err).Int("messages", len(messages)).Msg("chat reply failed")
		return "", http.StatusInternalServerError, "Failed to generate response"
	}
}
