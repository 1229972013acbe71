package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/slide-explainer/backend/internal/api"
	"github.com/slide-explainer/backend/internal/config"
	"github.com/slide-explainer/backend/internal/explain"
	"github.com/slide-explainer/backend/internal/extract"
	"github.com/slide-explainer/backend/internal/jobstore"
	"github.com/slide-explainer/backend/internal/providers"
	"github.com/slide-explainer/backend/internal/web"
)

const defaultConfigPath = "SlideExplainer.yaml"

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("EXPLAINER_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	store, err := jobstore.NewDirStore(cfg.Storage.InboxDirectory, cfg.Storage.OutboxDirectory)
	if err != nil {
		fmt.Printf("Failed to initialize job store: %v\n", err)
		os.Exit(1)
	}

	// The generation backend is injected here and nowhere else; with no API
	// key configured the service runs against the deterministic mock.
	var generator providers.Generator
	if cfg.OpenAI.APIKey != "" {
		generator = providers.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	} else {
		fmt.Println("Warning: OPENAI_API_KEY not set, using mock generator")
		generator = providers.NewMockGenerator()
	}

	scanLogger := log.New("explainer")
	slideGen := explain.NewGenerator(generator, explain.GeneratorConfig{
		Model:    cfg.OpenAI.Model,
		Timeout:  cfg.GenerationTimeout(),
		Cooldown: cfg.RateLimitCooldown(),
	}, scanLogger)
	orchestrator := explain.NewOrchestrator(slideGen, explain.FixedDelayPacer{Delay: cfg.SubmitDelay()})
	scanner := explain.NewScanner(store, orchestrator, cfg.ScanInterval(), scanLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scanner.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/status/") ||
				c.Request().URL.Path == "/health"
		},
	}))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	handler := api.NewHandler(store, extract.DefaultRegistry(), cfg.AllowedExtensionSet())
	api.RegisterRoutes(e, handler)
	web.RegisterNotFoundPage(e)

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("Slide Explainer %s (built %s)\n", Version, BuildTime)
	fmt.Printf("Listening on http://%s\n", cfg.GetServerAddr())
	fmt.Printf("Inbox: %s  Outbox: %s  Scan interval: %s\n",
		cfg.Storage.InboxDirectory, cfg.Storage.OutboxDirectory, cfg.ScanInterval())

	go func() {
		if err := e.StartServer(s); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("Shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
