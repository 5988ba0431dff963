package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gcc-cost-api/internal/application/otp"
	"github.com/gcc-cost-api/internal/application/verifiedemail"
	"github.com/gcc-cost-api/internal/domain"
)

// TokenSigner issues verification tokens after a successful check.
type TokenSigner interface {
	Sign(email, organization string) (string, error)
}

// VerificationHandler handles the OTP email-verification flow.
type VerificationHandler struct {
	otps     otp.Service
	registry verifiedemail.Service
	tokens   TokenSigner
	appEnv   string
}

func NewVerificationHandler(otps otp.Service, registry verifiedemail.Service, tokens TokenSigner, appEnv string) *VerificationHandler {
	return &VerificationHandler{otps: otps, registry: registry, tokens: tokens, appEnv: appEnv}
}

type sendOtpRequest struct {
	Email        string `json:"email"`
	Organization string `json:"organization"`
}

func (h *VerificationHandler) SendOtp(w http.ResponseWriter, r *http.Request) {
	var body sendOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Email == "" || body.Organization == "" {
		writeError(w, http.StatusBadRequest, "Email and organization name are required")
		return
	}

	res, err := h.otps.Issue(r.Context(), body.Email, body.Organization)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	case errors.Is(err, domain.ErrPersonalEmail):
		writeError(w, http.StatusBadRequest, "Please use your company/organization email address. Personal email addresses like Gmail, Yahoo, etc. are not allowed.")
		return
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	default:
		writeError(w, http.StatusInternalServerError, "Failed to send OTP. Please try again.")
		return
	}

	if res.AlreadyVerified {
		env := SendOtpEnvelope{
			AlreadyVerified: true,
			Message:         "Email is already verified. Proceeding to calculation...",
		}
		if tok, err := h.signFor(r.Context(), body.Email); err == nil {
			env.VerificationToken = tok
		}
		writeJSON(w, http.StatusOK, env)
		return
	}

	env := SendOtpEnvelope{Success: true, OtpID: res.OtpID}
	if res.Delivered {
		env.Message = "OTP sent successfully to your email"
	} else {
		// Delivery failure is non-fatal; the code is logged server-side.
		env.Message = "OTP generated (check console for development)"
		if h.appEnv == "development" {
			env.DemoOtp = res.Code
		}
	}
	writeJSON(w, http.StatusOK, env)
}

type verifyOtpRequest struct {
	OtpID string `json:"otp_id"`
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

func (h *VerificationHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var body verifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.OtpID == "" || body.Email == "" || body.Otp == "" {
		writeError(w, http.StatusBadRequest, "Email and OTP are required")
		return
	}

	outcome, err := h.otps.Verify(r.Context(), body.OtpID, body.Email, body.Otp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch outcome.Status {
	case domain.VerifySuccess:
		env := VerifyOtpEnvelope{Verified: true, Message: "Email verified successfully"}
		if tok, err := h.signFor(r.Context(), body.Email); err == nil {
			env.VerificationToken = tok
		}
		writeJSON(w, http.StatusOK, env)
	case domain.VerifyExpired:
		writeJSON(w, http.StatusOK, VerifyOtpEnvelope{Error: "OTP expired"})
	case domain.VerifyTooManyAttempts:
		writeJSON(w, http.StatusOK, VerifyOtpEnvelope{Error: "Too many attempts"})
	case domain.VerifyEmailMismatch:
		writeJSON(w, http.StatusOK, VerifyOtpEnvelope{Error: "Email mismatch"})
	case domain.VerifyInvalidCode:
		remaining := outcome.Remaining
		writeJSON(w, http.StatusOK, VerifyOtpEnvelope{
			Error:             fmt.Sprintf("Invalid OTP. %d attempts remaining.", remaining),
			RemainingAttempts: &remaining,
		})
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

type statusRequest struct {
	Email string `json:"email"`
}

func (h *VerificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	var body statusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	entry, err := h.registry.IsVerified(r.Context(), body.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusOK, VerificationStatusEnvelope{
			Verified: false,
			Message:  "Email verification required",
		})
		return
	}
	writeJSON(w, http.StatusOK, VerificationStatusEnvelope{
		Verified:     true,
		Organization: entry.Organization,
		Message:      "Email is already verified",
	})
}

// signFor issues a verification token using the registry entry as the claim
// source. Failure to sign is non-fatal; the registry stays authoritative.
func (h *VerificationHandler) signFor(ctx context.Context, email string) (string, error) {
	if h.tokens == nil {
		return "", errors.New("no token signer configured")
	}
	entry, err := h.registry.IsVerified(ctx, email)
	if err != nil || entry == nil {
		return "", fmt.Errorf("email %s is not verified", email)
	}
	return h.tokens.Sign(entry.Email, entry.Organization)
}
