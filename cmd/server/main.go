package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/mileage-recorder/internal/domain"
	"github.com/kahvecikaan/mileage-recorder/internal/events"
	"github.com/kahvecikaan/mileage-recorder/internal/service"
	httpTransport "github.com/kahvecikaan/mileage-recorder/internal/transport/http"
	websocketTransport "github.com/kahvecikaan/mileage-recorder/internal/transport/websocket"
	"github.com/kahvecikaan/mileage-recorder/internal/webhook"
	"github.com/nicholasjackson/env"
)

// Environment variables
var (
	bindAddress = env.String("BIND_ADDRESS", false,
		":9090", "Bind address for the server")
	logLevel = env.String("LOG_LEVEL", false,
		"info", "Log output level for the server [trace, debug, info, warn, error]")
	logJSON = env.Bool("LOG_JSON", false,
		false, "Write logs as JSON")
	makerBaseURL = env.String("MAKER_BASE_URL", false,
		webhook.DefaultBaseURL, "Base URL of the Maker webhook service")
	makerEvent = env.String("MAKER_EVENT", false,
		webhook.DefaultEventName, "Maker event name to trigger")
	makerKey = env.String("MAKER_KEY", true,
		"", "Maker webhook key")
	webhookTimeout = env.Duration("WEBHOOK_TIMEOUT", false,
		30*time.Second, "Timeout for a single webhook request")
	strictPayload = env.Bool("STRICT_PAYLOAD", false,
		false, "Reject app messages with missing or non-numeric readings")
	corsOrigins = env.String("CORS_ORIGINS", false,
		"*", "Comma separated list of allowed CORS origins")
)

func main() {
	// Initialize the logger
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "mileage-recorder",
		Level:      hclog.LevelFromString(*logLevel),
		JSONFormat: *logJSON,
	})

	if err := env.Parse(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	// Flags are only known after parsing
	logger.SetLevel(hclog.LevelFromString(*logLevel))

	// Create a standard logger for the HTTP server
	standardLogger := logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})

	// The trace stream is shared between the services and the WebSocket handler
	eventBus := events.NewEventBus[any](logger.Named("event-bus"))

	client, err := webhook.NewClient(webhook.Config{
		BaseURL:   *makerBaseURL,
		EventName: *makerEvent,
		Key:       *makerKey,
	}, &http.Client{Timeout: *webhookTimeout})
	if err != nil {
		logger.Error("Unable to create webhook client", "error", err)
		os.Exit(1)
	}
	logger.Info("Forwarding app messages", "url", client.RedactedURL())

	fs := service.NewForwarderService(
		client,
		eventBus,
		logger.Named("forwarder"),
	)

	ams := service.NewAppMessageService(
		domain.NewValidation(),
		*strictPayload,
		eventBus,
		logger.Named("appmessage"),
	)
	ams.AddEventListener(domain.EventAppMessage, fs.Handle)

	ah := httpTransport.NewAppMessageHandler(ams, logger.Named("http-handler"))

	origins := splitOrigins(*corsOrigins)

	wh := websocketTransport.NewHandler(
		logger.Named("websocket-handler"),
		eventBus,
		origins,
	)

	router := httpTransport.NewRouter(ah, logger, wh)

	server := &http.Server{
		Addr:         *bindAddress,
		Handler:      httpTransport.NewHandler(router, logger, origins),
		ErrorLog:     standardLogger,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "bind_address", *bindAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Error starting server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutting down server", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop accepting messages before draining in-flight webhook calls
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", "error", err)
	}

	if err := fs.Close(); err != nil {
		logger.Error("Error closing forwarder service", "error", err)
	}
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
