package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/safetrip/backend/internal/config"
	"github.com/safetrip/backend/internal/handler"
	"github.com/safetrip/backend/internal/metrics"
	"github.com/safetrip/backend/internal/model/helpline"
	"github.com/safetrip/backend/internal/service/ai"
	"github.com/safetrip/backend/internal/service/assistant"
	"github.com/safetrip/backend/internal/service/chat"
	"github.com/safetrip/backend/internal/service/weather"
	applog "github.com/safetrip/backend/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer applog.Sync()

	logger := applog.L()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	helplineStore := helpline.NewMemoryStore(helpline.Seed())
	chatService := chat.NewService()

	if cfg.Weather.APIKey == "" {
		logger.Warn("WEATHER_API_KEY 未配置，天气查询将返回失败提示")
	}
	weatherClient := weather.NewClient(weather.Config{
		BaseURL: cfg.Weather.BaseURL,
		APIKey:  cfg.Weather.APIKey,
		Country: cfg.Weather.Country,
		Timeout: cfg.Weather.Timeout,
	}, nil)

	// Generator is optional; without it every answer is the fallback reply.
	var generator ai.Generator
	if cfg.AI.Enabled() {
		generator, err = ai.NewGenerator(ctx, cfg.AI)
		if err != nil {
			logger.Warn("failed to initialize AI generator, continuing without AI functionality",
				zap.String("provider", cfg.AI.Provider), zap.Error(err))
			generator = nil
		} else {
			logger.Info("AI generator initialized", zap.String("provider", cfg.AI.Provider))
		}
	} else {
		logger.Warn("AI 凭证未配置，跳过 AI 功能初始化", zap.String("provider", cfg.AI.Provider))
	}

	assistantService := assistant.NewService(chatService, weatherClient, generator, helplineStore, assistant.Options{
		EmergencyOnUnresolved: cfg.Assistant.EmergencyOnUnresolved,
		Metrics:               appMetrics,
	})

	router := handler.NewRouter(helplineStore, chatService, assistantService, registry, appMetrics)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	applog.L().Info("SafeTrip backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		applog.L().Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
