package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gcc-cost-api/internal/application/pricing"
	"github.com/gcc-cost-api/internal/application/verifiedemail"
	"github.com/gcc-cost-api/internal/application/visit"
	"github.com/gcc-cost-api/internal/domain"
	jwtinfra "github.com/gcc-cost-api/internal/infrastructure/jwt"
	"github.com/gcc-cost-api/internal/pkg/validate"
)

// TokenVerifier checks verification tokens presented on calculate requests.
type TokenVerifier interface {
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// CalculatorHandler serves cost calculations and the pricing catalog.
type CalculatorHandler struct {
	pricing  pricing.Service
	visits   visit.Service
	registry verifiedemail.Service
	tokens   TokenVerifier
}

func NewCalculatorHandler(p pricing.Service, v visit.Service, registry verifiedemail.Service, tokens TokenVerifier) *CalculatorHandler {
	return &CalculatorHandler{pricing: p, visits: v, registry: registry, tokens: tokens}
}

func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req domain.CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	applyCalcDefaults(&req)
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.pricing.Calculate(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Error calculating costs")
		return
	}

	// Verification is optional here; an unverified calculation still works.
	if email, org, ok := h.verifiedIdentity(r); ok {
		res.VerifiedEmail = email
		res.Organization = org
	}

	userID := req.UserID
	if userID == "" {
		userID = res.VerifiedEmail
	}
	// Detached from the request lifecycle so a client disconnect cannot
	// drop the visit record.
	go h.visits.Log(context.WithoutCancel(r.Context()), userID, req, res.TotalCost)

	writeJSON(w, http.StatusOK, res)
}

// verifiedIdentity extracts the bearer token, validates it, and cross-checks
// the registry. The registry is authoritative: a valid token for an email
// whose window has lapsed does not count.
func (h *CalculatorHandler) verifiedIdentity(r *http.Request) (email, organization string, ok bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" || h.tokens == nil {
		return "", "", false
	}
	tokenStr := strings.TrimPrefix(auth, "Bearer ")
	claims, err := h.tokens.Verify(tokenStr)
	if err != nil {
		return "", "", false
	}
	entry, err := h.registry.IsVerified(r.Context(), claims.Email)
	if err != nil || entry == nil {
		return "", "", false
	}
	return entry.Email, entry.Organization, true
}

func applyCalcDefaults(req *domain.CalcRequest) {
	if req.Headcount == 0 {
		req.Headcount = 100
	}
	if req.Tier == "" {
		req.Tier = "Tier 1"
	}
	if req.City == "" {
		req.City = "Bengaluru"
	}
	if req.Plan == "" {
		req.Plan = domain.PlanBasic
	}
}

func (h *CalculatorHandler) Cities(w http.ResponseWriter, r *http.Request) {
	tier := chi.URLParam(r, "tier")
	cities, err := h.pricing.CitiesByTier(r.Context(), tier)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if cities == nil {
		cities = []string{}
	}
	writeJSON(w, http.StatusOK, CitiesEnvelope{Tier: tier, Cities: cities})
}

func (h *CalculatorHandler) PlanDetails(w http.ResponseWriter, r *http.Request) {
	plan := r.URL.Query().Get("plan")
	if plan == "" {
		plan = domain.PlanBasic
	}
	headcount := 100
	if hc := r.URL.Query().Get("headcount"); hc != "" {
		n, err := strconv.Atoi(hc)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "headcount must be a positive integer")
			return
		}
		headcount = n
	}

	details := pricing.PlanDetails(plan, headcount)
	if details == nil {
		writeError(w, http.StatusNotFound, "unknown plan")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *CalculatorHandler) PlanRanges(w http.ResponseWriter, r *http.Request) {
	ranges, err := h.pricing.PlanRanges(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, ranges)
}
