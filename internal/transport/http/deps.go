package http

import (
	"github.com/gcc-cost-api/internal/application/otp"
	"github.com/gcc-cost-api/internal/application/pricing"
	"github.com/gcc-cost-api/internal/application/verifiedemail"
	"github.com/gcc-cost-api/internal/application/visit"
	jwtinfra "github.com/gcc-cost-api/internal/infrastructure/jwt"
)

// Deps holds all infrastructure dependencies for the router. The store
// fields accept either the memory or the dynamo implementations.
type Deps struct {
	OtpStore      otp.Store
	VerifiedStore verifiedemail.Store
	CityCosts     pricing.CityCostStore
	PlanRates     pricing.PlanRateStore
	VisitStore    visit.Store
	Notifier      otp.Notifier
	JWTProvider   *jwtinfra.Provider
}
