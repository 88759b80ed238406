package events

import "time"

// AppMessageReceived is published when the watch delivers a message
type AppMessageReceived struct {
	ReceivedAt time.Time `json:"received_at"`
}

// RequestSent is published once the webhook accepted a forwarded reading.
// URL is always the redacted form.
type RequestSent struct {
	Method     string        `json:"method"`
	URL        string        `json:"url"`
	Body       string        `json:"body"`
	StatusCode int           `json:"status_code"`
	Duration   time.Duration `json:"duration"`
}

// RequestFailed is published when a forwarded reading did not reach the
// webhook or was answered with a non-2xx status
type RequestFailed struct {
	Method     string `json:"method"`
	URL        string `json:"url"`
	Body       string `json:"body"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error"`
}
