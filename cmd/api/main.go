package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gcc-cost-api/internal/application/pricing"
	"github.com/gcc-cost-api/internal/config"
	"github.com/gcc-cost-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/gcc-cost-api/internal/infrastructure/jwt"
	"github.com/gcc-cost-api/internal/infrastructure/memory"
	"github.com/gcc-cost-api/internal/infrastructure/notify"
	s3infra "github.com/gcc-cost-api/internal/infrastructure/s3"
	"github.com/gcc-cost-api/internal/infrastructure/smtp"
	transporthttp "github.com/gcc-cost-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	deps := &transporthttp.Deps{
		Notifier:    notify.New(cfg.ResendAPIKey, cfg.EmailFrom, smtp.NewMailer(cfg)),
		JWTProvider: jwtinfra.NewProvider(cfg),
	}

	// The seed document may live on S3; the fetcher is only needed then.
	var fetcher pricing.ObjectFetcher
	if strings.HasPrefix(cfg.PricingDataURI, "s3://") {
		fetcher = s3infra.NewStore(s3infra.NewClient(cfg))
	}
	dataset, err := pricing.LoadDataset(ctx, cfg.PricingDataURI, fetcher)
	if err != nil {
		log.Fatalf("load pricing dataset: %v", err)
	}

	switch cfg.StoreBackend {
	case "dynamo":
		// Bootstrap DynamoDB tables (creates them if they don't exist).
		client := dynamo.NewClient(cfg)
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)

		cityCosts := dynamo.NewCityCostRepo(client, cfg.DynamoTables.CityCosts)
		planRates := dynamo.NewPlanRateRepo(client, cfg.DynamoTables.PlanRates)
		if err := pricing.Seed(ctx, dataset, cityCosts, planRates); err != nil {
			log.Fatalf("seed pricing tables: %v", err)
		}

		deps.OtpStore = dynamo.NewOtpRepo(client, cfg.DynamoTables.Otps)
		deps.VerifiedStore = dynamo.NewVerifiedEmailRepo(client, cfg.DynamoTables.VerifiedEmails)
		deps.CityCosts = cityCosts
		deps.PlanRates = planRates
		deps.VisitStore = dynamo.NewVisitRepo(client, cfg.DynamoTables.Visits, cfg.DynamoTables.VisitStats)
	case "memory":
		cityCosts := memory.NewCityCostStore()
		planRates := memory.NewPlanRateStore()
		if err := pricing.Seed(ctx, dataset, cityCosts, planRates); err != nil {
			log.Fatalf("seed pricing stores: %v", err)
		}

		deps.OtpStore = memory.NewOtpStore()
		deps.VerifiedStore = memory.NewVerifiedEmailStore()
		deps.CityCosts = cityCosts
		deps.PlanRates = planRates
		deps.VisitStore = memory.NewVisitStore()
	default:
		log.Fatalf("unknown STORE_BACKEND %q (want memory or dynamo)", cfg.StoreBackend)
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, store=%s)", cfg.AppPort, cfg.AppEnv, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
