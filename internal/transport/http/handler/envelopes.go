package handler

import (
	"encoding/json"
	"net/http"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// SendOtpEnvelope wraps send-otp responses. DemoOtp is populated only in the
// development environment when email delivery fails.
type SendOtpEnvelope struct {
	Success           bool   `json:"success,omitempty"`
	AlreadyVerified   bool   `json:"already_verified,omitempty"`
	OtpID             string `json:"otp_id,omitempty"`
	Message           string `json:"message,omitempty"`
	DemoOtp           string `json:"demo_otp,omitempty"`
	VerificationToken string `json:"verification_token,omitempty"`
	Error             string `json:"error,omitempty"`
}

// VerifyOtpEnvelope wraps verify-otp responses.
type VerifyOtpEnvelope struct {
	Verified          bool   `json:"verified"`
	Message           string `json:"message,omitempty"`
	Error             string `json:"error,omitempty"`
	RemainingAttempts *int   `json:"remaining_attempts,omitempty"`
	VerificationToken string `json:"verification_token,omitempty"`
}

// VerificationStatusEnvelope wraps check-verification responses.
type VerificationStatusEnvelope struct {
	Verified     bool   `json:"verified"`
	Organization string `json:"organization,omitempty"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
}

// CitiesEnvelope wraps the cities-by-tier listing.
type CitiesEnvelope struct {
	Tier   string   `json:"tier"`
	Cities []string `json:"cities"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
