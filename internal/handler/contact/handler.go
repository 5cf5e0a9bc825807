package contact

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	chatHandler "github.com/safetrip/backend/internal/handler/chat"
	"github.com/safetrip/backend/internal/metrics"
	"github.com/safetrip/backend/internal/model/chat"
	chatService "github.com/safetrip/backend/internal/service/chat"
	"github.com/safetrip/backend/pkg/utils"
)

// Handler 紧急联系人的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
	metrics *metrics.Collectors
}

// New 创建联系人处理器
func New(chatSvc *chatService.Service, collectors *metrics.Collectors) *Handler {
	return &Handler{chatSvc: chatSvc, metrics: collectors}
}

// RegisterRoutes 注册联系人相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/session/{sessionID}/contacts", func(cr chi.Router) {
		cr.Get("/", h.handleList)
		cr.Post("/", h.handleAdd)
		cr.Post("/alert", h.handleAlertAll)
		cr.Delete("/{index}", h.handleDelete)
		cr.Post("/{index}/alert", h.handleAlertOne)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.chatSvc.ListContacts(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		chatHandler.RespondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var payload chat.Contact
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact, err := h.chatSvc.AddContact(r.Context(), chi.URLParam(r, "sessionID"), payload)
	if err != nil {
		chatHandler.RespondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, contact)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}

	removed, err := h.chatSvc.DeleteContact(r.Context(), chi.URLParam(r, "sessionID"), index)
	if err != nil {
		chatHandler.RespondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, removed)
}

func (h *Handler) handleAlertOne(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}

	confirmation, err := h.chatSvc.AlertContact(r.Context(), chi.URLParam(r, "sessionID"), index)
	if err != nil {
		chatHandler.RespondServiceError(w, err)
		return
	}
	h.metrics.ObserveAlerts(1)
	utils.RespondJSON(w, http.StatusOK, map[string]any{"confirmation": confirmation, "count": 1})
}

func (h *Handler) handleAlertAll(w http.ResponseWriter, r *http.Request) {
	confirmation, count, err := h.chatSvc.AlertAll(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		chatHandler.RespondServiceError(w, err)
		return
	}
	h.metrics.ObserveAlerts(count)
	utils.RespondJSON(w, http.StatusOK, map[string]any{"confirmation": confirmation, "count": count})
}

func parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		utils.RespondError(w, http.StatusBadRequest, "index must be a non-negative integer")
		return 0, false
	}
	return index, true
}
