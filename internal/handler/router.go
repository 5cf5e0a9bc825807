package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/safetrip/backend/internal/handler/chat"
	"github.com/safetrip/backend/internal/handler/contact"
	"github.com/safetrip/backend/internal/handler/helpline"
	"github.com/safetrip/backend/internal/handler/stream"
	"github.com/safetrip/backend/internal/handler/web"
	"github.com/safetrip/backend/internal/handler/ws"
	"github.com/safetrip/backend/internal/metrics"
	middlewarePkg "github.com/safetrip/backend/internal/middleware"
	helplineModel "github.com/safetrip/backend/internal/model/helpline"
	"github.com/safetrip/backend/internal/service/assistant"
	chatService "github.com/safetrip/backend/internal/service/chat"
	applog "github.com/safetrip/backend/pkg/log"
	"github.com/safetrip/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(helplines helplineModel.Store, chatSvc *chatService.Service, assistantSvc *assistant.Service, registry *prometheus.Registry, collectors *metrics.Collectors) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	helplineHandler := helpline.New(helplines)
	chatHandler := chat.New(chatSvc, assistantSvc)
	contactHandler := contact.New(chatSvc, collectors)
	streamHandler := stream.New(assistantSvc)
	wsHandler := ws.New(chatSvc, assistantSvc)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		helplineHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		contactHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)

		// SSE variant of POST /session/{id}/messages
		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}
			if _, err := chatSvc.GetSession(r.Context(), sessionID); err != nil {
				chat.RespondServiceError(w, err)
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				applog.WithCtx(r.Context()).Error("stream request failed", zap.String("session_id", sessionID), zap.Error(err))
				if errors.Is(err, stream.ErrStreamingUnsupported) {
					utils.RespondError(w, http.StatusInternalServerError, "streaming failed")
				}
			}
		})
	})

	web.RegisterRoutes(r)

	return r
}
