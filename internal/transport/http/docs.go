// Package classification of Mileage Recorder API
//
// # Documentation for Mileage Recorder API
//
// Receives fuel readings from the watch and forwards them to the Maker webhook.
//
// Schemes: http
// BasePath: /
// Version: 1.0.0
//
// Consumes:
// - application/json
//
// Produces:
// - application/json
//
// swagger:meta
package http

import "github.com/kahvecikaan/mileage-recorder/internal/domain"

// Generic error message returned as a string
// swagger:response errorResponse
type errorResponseWrapper struct {
	// Description of the error
	// in: body
	Body ErrorResponse
}

// Validation errors for a rejected reading
// swagger:response validationErrorResponse
type validationErrorResponseWrapper struct {
	// Collection of the errors
	// in: body
	Body domain.ValidationErrors
}

// The message was accepted for forwarding
// swagger:response acceptedResponse
type acceptedResponseWrapper struct {
	// in: body
	Body AcceptedResponse
}

// swagger:response healthResponse
type healthResponseWrapper struct {
	// in: body
	Body HealthResponse
}

// swagger:parameters receiveAppMessage
type appMessageParamsWrapper struct {
	// App message delivered by the watch.
	// in: body
	// required: true
	Body domain.AppMessage
}

// ErrorResponse defines the structure for API error responses
//
// swagger:model
type ErrorResponse struct {
	// The error message
	//
	// required: true
	Message string `json:"message"`
}

// AcceptedResponse is returned once a message has been dispatched
//
// swagger:model
type AcceptedResponse struct {
	// example: accepted
	Status string `json:"status"`
}

// HealthResponse reports liveness
//
// swagger:model
type HealthResponse struct {
	// example: ok
	Status string `json:"status"`
}
