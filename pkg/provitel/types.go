package provitel

import "encoding/json"

// RegisterSIMRequest registers a SIM/service with the provider.
type RegisterSIMRequest struct {
	SIMSerial string `json:"simSerial"`
	MSISDN    string `json:"msisdn,omitempty"`
	PlanCode  string `json:"planCode,omitempty"`
}

// RegisterSIMResponse is the provider's acknowledgement. Ref is the
// provider-side reference the portal stores on the user product.
type RegisterSIMResponse struct {
	Ref     string `json:"ref"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// StatusResponse reports the provider-side state of a service.
type StatusResponse struct {
	Ref     string `json:"ref"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// UsageResponse wraps a usage query result. Data is opaque to the
// portal: it is cached and passed through to the UI unmodified.
type UsageResponse struct {
	Ref  string          `json:"ref"`
	Data json.RawMessage `json:"data"`
}

// Provider-side service states the portal understands.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)
