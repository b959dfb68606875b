package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	contactservice "github.com/vivekdev/portfolio/backend/internal/service/contact"
	"github.com/vivekdev/portfolio/backend/pkg/utils"
)

// Submitter 校验并转发联系表单
type Submitter interface {
	Submit(ctx context.Context, sub contactservice.Submission) error
}

// Handler 联系表单的HTTP处理器
type Handler struct {
	submitter Submitter
}

// New 创建联系表单处理器；submitter 为 nil 表示未配置表单后端
func New(submitter Submitter) *Handler {
	return &Handler{submitter: submitter}
}

// RegisterRoutes 注册联系表单路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/contact", h.handleSubmit)
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if h.submitter == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "contact form unavailable")
		return
	}

	var payload contactservice.Submission
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.submitter.Submit(r.Context(), payload)
	var verr *contactservice.ValidationError
	switch {
	case err == nil:
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "sent"})
	case errors.As(err, &verr):
		utils.RespondJSON(w, http.StatusBadRequest, validationResponse{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
	case errors.Is(err, contactservice.ErrForwardFailed):
		utils.RespondError(w, http.StatusBadGateway, "failed to send message")
	default:
		log.Error().Err(err).Msg("contact submission failed")
		utils.RespondError(w, http.StatusInternalServerError, "failed to send message")
	}
}
