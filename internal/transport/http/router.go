package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/gcc-cost-api/internal/application/otp"
	"github.com/gcc-cost-api/internal/application/pricing"
	"github.com/gcc-cost-api/internal/application/verifiedemail"
	"github.com/gcc-cost-api/internal/application/visit"
	"github.com/gcc-cost-api/internal/config"
	"github.com/gcc-cost-api/internal/pkg/clock"
	"github.com/gcc-cost-api/internal/transport/http/handler"
	appmiddleware "github.com/gcc-cost-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the OTP endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	clk := clock.New()
	registrySvc := verifiedemail.NewService(deps.VerifiedStore, clk, cfg.VerifiedWindow)
	otpSvc := otp.NewService(otp.Deps{
		Store:         deps.OtpStore,
		Registry:      registrySvc,
		Notifier:      deps.Notifier,
		Clock:         clk,
		Expiry:        cfg.OTPExpiry,
		MaxAttempts:   cfg.OTPMaxAttempts,
		NotifyTimeout: cfg.EmailTimeout,
	})
	pricingSvc := pricing.NewService(deps.CityCosts, deps.PlanRates)
	visitSvc := visit.NewService(deps.VisitStore, clk)

	healthH := handler.NewHealthHandler()
	verificationH := handler.NewVerificationHandler(otpSvc, registrySvc, deps.JWTProvider, cfg.AppEnv)
	calculatorH := handler.NewCalculatorHandler(pricingSvc, visitSvc, registrySvc, deps.JWTProvider)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/verification/send-otp", verificationH.SendOtp)
		r.With(sensitiveRL.Limit).Post("/verification/verify-otp", verificationH.VerifyOtp)
		r.Post("/verification/status", verificationH.Status)

		r.Post("/calculate", calculatorH.Calculate)
		r.Get("/cities/{tier}", calculatorH.Cities)
		r.Get("/plan-details", calculatorH.PlanDetails)
		r.Get("/plan-ranges", calculatorH.PlanRanges)
	})

	return r
}
