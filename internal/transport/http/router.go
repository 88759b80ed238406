package http

import (
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	websocketTransport "github.com/kahvecikaan/mileage-recorder/internal/transport/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	ah *AppMessageHandler,
	logger hclog.Logger,
	wsh *websocketTransport.Handler,
) *mux.Router {
	router := mux.NewRouter()

	mw := NewMiddleware(logger)

	router.Use(mw.LoggingMiddleware)

	// JSON API
	api := router.NewRoute().Subrouter()
	api.Use(mw.ContentTypeMiddleware)
	api.HandleFunc("/health", Health).Methods(http.MethodGet)

	postRouter := api.Methods(http.MethodPost).Subrouter()
	postRouter.HandleFunc("/appmessage", ah.ReceiveAppMessage)
	postRouter.Use(mw.AppMessageMiddleware)

	router.HandleFunc("/ws", wsh.HandleWebSocket).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// swagger.yaml lives at the repository root
	_, filename, _, _ := runtime.Caller(0)
	basePath := filepath.Dir(filename)                        // .../internal/transport/http
	rootDir := filepath.Join(basePath, "..", "..", "..")      // Navigate up to the root
	swaggerFilePath := filepath.Join(rootDir, "swagger.yaml") // .../swagger.yaml

	router.HandleFunc("/swagger.yaml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, swaggerFilePath)
	}).Methods(http.MethodGet)

	swaggerOpts := middleware.RedocOpts{SpecURL: "/swagger.yaml"}
	router.Handle("/docs", middleware.Redoc(swaggerOpts, nil)).Methods(http.MethodGet)

	return router
}

// NewHandler wraps the router with panic recovery and CORS. Preflight
// requests never reach the router, which has no OPTIONS routes.
func NewHandler(router *mux.Router, logger hclog.Logger, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With"}),
		handlers.MaxAge(600),
	)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.StandardLogger(&hclog.StandardLoggerOptions{ForceLevel: hclog.Error})),
	)

	return recovery(cors(router))
}
