package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/aibf/conference-registration/internal/backend"
	"github.com/aibf/conference-registration/internal/config"
	"github.com/aibf/conference-registration/internal/eligibility"
	"github.com/aibf/conference-registration/internal/fees"
	"github.com/aibf/conference-registration/internal/handler"
	"github.com/aibf/conference-registration/internal/queue"
	"github.com/aibf/conference-registration/internal/repository"
	"github.com/aibf/conference-registration/internal/router"
	queue_publisher "github.com/aibf/conference-registration/internal/service"
	"github.com/aibf/conference-registration/internal/workflow"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()
	cfg := config.Load()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; using in-memory draft store, caching and rate limiting disabled")
	}

	// Drafts survive restarts only with Redis behind them; the in-memory
	// store is the single-process fallback.
	var drafts repository.DraftRepository
	if rdb != nil {
		drafts = repository.NewRedisDraftRepository(rdb, time.Duration(cfg.DraftTTLDays)*24*time.Hour)
	} else {
		drafts = repository.NewMemoryDraftRepository()
	}

	engine := fees.Engine{
		Schedule:         fees.DefaultSchedule(),
		DiscountPercent:  cfg.DiscountPercent,
		DiscountPackages: cfg.DiscountPackages,
		FeeCents:         cfg.RegistrationFee,
		FeeRegions:       cfg.FeeRegions,
	}

	bc := backend.New(cfg.BackendBaseURL)
	bus := eligibility.NewBus()
	manager := workflow.NewManager(drafts, engine, bc, bus, queue_publisher.Publisher{})

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, bc, bus), cfg.JWTSecret)
	router.RegisterEvents(e, handler.NewEventsHandler(cfg, bc, bus, rdb), rdb)
	router.RegisterRegistration(e, handler.NewRegistrationHandler(manager), cfg.JWTSecret, rdb)
	router.RegisterAdmin(e, handler.NewAdminHandler(bc), cfg.JWTSecret, cfg.AdminEmails)

	// Background audit-trail consumer; reconnects on its own.
	go func() {
		if err := queue.StartRegistrationConsumer(); err != nil {
			log.Printf("registration consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
