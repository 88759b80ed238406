package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/mileage-recorder/internal/domain"
	"github.com/kahvecikaan/mileage-recorder/internal/service"
)

type AppMessageHandler struct {
	appMessageService service.AppMessageService
	logger            hclog.Logger
}

func NewAppMessageHandler(ams service.AppMessageService, log hclog.Logger) *AppMessageHandler {
	return &AppMessageHandler{
		appMessageService: ams,
		logger:            log,
	}
}

// ReceiveAppMessage handles POST /appmessage
//
// swagger:route POST /appmessage appmessages receiveAppMessage
//
// Delivers a message from the watch. The reading is forwarded to the
// webhook asynchronously; the response does not reflect the webhook outcome.
//
// Responses:
//
//	202: acceptedResponse
//	400: errorResponse
//	422: validationErrorResponse
func (h *AppMessageHandler) ReceiveAppMessage(w http.ResponseWriter, r *http.Request) {
	msg, ok := r.Context().Value(ContextKeyAppMessage).(*domain.AppMessage)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid app message")
		return
	}

	err := h.appMessageService.Receive(r.Context(), *msg)
	if err != nil {
		var verrs domain.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(verrs)
		case errors.Is(err, domain.ErrMissingPayload):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Error receiving app message", "error", err)
			writeError(w, http.StatusInternalServerError, "Error receiving app message")
		}
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(AcceptedResponse{Status: "accepted"})
}

// Health handles GET /health
//
// swagger:route GET /health health health
//
// Reports that the service is running.
//
// Responses:
//
//	200: healthResponse
func Health(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Message: message})
}
