package helpline

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/safetrip/backend/internal/model/helpline"
	"github.com/safetrip/backend/pkg/utils"
)

// Handler helpline 目录的HTTP处理器
type Handler struct {
	helplines helpline.Store
}

// New 创建helpline处理器
func New(helplines helpline.Store) *Handler {
	return &Handler{
		helplines: helplines,
	}
}

// RegisterRoutes 注册helpline相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/helplines", h.handleListHelplines)
	r.Get("/helplines/{helplineID}", h.handleGetHelpline)
}

// handleListHelplines 列出所有helpline
func (h *Handler) handleListHelplines(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.helplines.List())
}

func (h *Handler) handleGetHelpline(w http.ResponseWriter, r *http.Request) {
	item, ok := h.helplines.FindByID(chi.URLParam(r, "helplineID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "helpline not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}
