package domain

import "time"

// EventAppMessage is the event type delivered when the watch sends data.
const EventAppMessage = "appmessage"

// AppMessage is one message delivered from the paired watch application.
//
// swagger:model
type AppMessage struct {
	// Dictionary of readings keyed by KEY_ODOMETER, KEY_PRICE, KEY_QUANTITY
	//
	// required: true
	// example: {"KEY_ODOMETER": 52341, "KEY_PRICE": 45990, "KEY_QUANTITY": 12500}
	Payload Payload `json:"payload"`

	// Set by the receiver, not by the watch
	ReceivedAt time.Time `json:"-"`
}
