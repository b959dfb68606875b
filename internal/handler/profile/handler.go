package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vivekdev/portfolio/backend/internal/model/profile"
	"github.com/vivekdev/portfolio/backend/pkg/utils"
)

// Handler profile服务的HTTP处理器
type Handler struct {
	profiles profile.Store
}

// New 创建profile处理器
func New(profiles profile.Store) *Handler {
	return &Handler{
		profiles: profiles,
	}
}

// RegisterRoutes 注册profile相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.handleGetProfile)
}

// handleGetProfile 返回聊天组件展示的资料、问候语与推荐问题
func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.profiles.Get())
}
