package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"radar-austral/internal/audit"
	"radar-austral/internal/auth"
	"radar-austral/internal/configstore"
	"radar-austral/internal/enrich"
	"radar-austral/internal/notify"
	"radar-austral/internal/observability/metrics"
	"radar-austral/internal/radar/adapters"
	"radar-austral/internal/radar/application"
	radar "radar-austral/internal/radar/domain"
	"radar-austral/internal/radar/infrastructure/memory"
	radarhttp "radar-austral/internal/radar/interfaces/http"
	"radar-austral/internal/transport"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the synchronization engine and HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

type serveConfig struct {
	HTTPAddr        string
	JWTSecret       string
	ConfigDBPath    string
	AnthropicAPIKey string
	SnowflakeNode   int64
}

func loadServeConfig() serveConfig {
	cfg := serveConfig{
		HTTPAddr:        getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:       getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		ConfigDBPath:    getenvDefault("RADAR_DB_PATH", "radar.db"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		SnowflakeNode:   int64(getenvIntDefault("RADAR_NODE_ID", 1)),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func runServe() error {
	cfg := loadServeConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	appCfg, err := application.LoadConfig()
	if err != nil {
		logger.Fatalf("engine config error: %v", err)
	}

	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		logger.Fatalf("id node error: %v", err)
	}

	cfgStore, err := configstore.Open(cfg.ConfigDBPath, logger)
	if err != nil {
		logger.Fatalf("config store error: %v", err)
	}
	defaultSettings := radar.Settings{
		NotificationsEnabled: true,
		PriorityOnly:         false,
		SoundEnabled:         true,
		DefaultPollMinutes:   appCfg.DefaultPollMinutes,
	}
	sources, settings, err := cfgStore.Load(adapters.DefaultSources(), defaultSettings)
	if err != nil {
		logger.Fatalf("config load error: %v", err)
	}

	fetcher := transport.NewClient(transport.WithTimeout(appCfg.FetchTimeout()))
	adapterRegistry := adapters.NewDefaultRegistry(appCfg.RegionToken, node)
	store := memory.NewStore()
	ledger := application.NewLedger(appCfg.LedgerCapacity)
	broker := radarhttp.NewSSEBroker()

	alerters := []notify.AlertCapability{broker}
	if appCfg.WebhookURL != "" {
		alerters = append(alerters, notify.NewWebhookAlerter(appCfg.WebhookURL))
	}

	opts := []application.EngineOption{
		application.WithAudio(broker),
		application.WithPersister(cfgStore),
		application.WithLogger(logger),
	}
	if cfg.AnthropicAPIKey != "" {
		summarizer, err := enrich.NewAnthropicSummarizer(cfg.AnthropicAPIKey)
		if err != nil {
			logger.Fatalf("summarizer error: %v", err)
		}
		opts = append(opts, application.WithSummarizer(summarizer))
	} else {
		logger.Printf("ANTHROPIC_API_KEY not set, narrative enrichment disabled")
	}

	engine, err := application.NewEngine(
		appCfg,
		fetcher,
		adapterRegistry,
		application.NewSourceRegistry(sources),
		store,
		ledger,
		notify.NewMultiAlerter(alerters...),
		settings,
		opts...,
	)
	if err != nil {
		logger.Fatalf("engine error: %v", err)
	}

	metrics.Init(ledger.Len, logger)

	auditRepo, err := audit.NewRepository(cfgStore.DB())
	if err != nil {
		logger.Fatalf("audit repo error: %v", err)
	}

	handler, err := radarhttp.NewHandler(engine, store, engine, radarhttp.WithAudit(auditRepo))
	if err != nil {
		logger.Fatalf("handler error: %v", err)
	}

	mux := http.NewServeMux()
	handler.Register(mux)
	radarhttp.NewExportHandler(store).Register(mux)
	mux.Handle("/api/v1/stream", radarhttp.NewStreamHandler(broker))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := application.NewScheduler(engine, appCfg.TickInterval(), logger)
	scheduler.Start(ctx)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("http listening on %s", cfg.HTTPAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutting down")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Printf("http server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	scheduler.Stop()
	engine.Drain()
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush keeps the event stream working behind the logging wrapper.
func (w *statusWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
