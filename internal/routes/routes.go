package routes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sokocart/sokocart/internal/account"
	"github.com/sokocart/sokocart/internal/config"
	"github.com/sokocart/sokocart/internal/contact"
	"github.com/sokocart/sokocart/internal/gate"
	"github.com/sokocart/sokocart/internal/media"
	"github.com/sokocart/sokocart/internal/middleware"
	"github.com/sokocart/sokocart/internal/notify"
	"github.com/sokocart/sokocart/internal/principal"
	"github.com/sokocart/sokocart/internal/session"
	"github.com/sokocart/sokocart/internal/sms"
)

const sweepInterval = 5 * time.Minute

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	// SMS overrides the default logging sender when set. Tests inject a
	// recorder here.
	SMS sms.Sender
}

// Setup configures middlewares and all application routes. The admission
// chain runs in a fixed order: recover, request id, audit log, CORS and
// security headers, then the rate limiter — all before any handler.
func Setup(app *fiber.App, d Deps) error {
	if d.Cfg.IsProduction() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Admission gate.
	var limitStore gate.Store
	if d.Cache != nil {
		limitStore = gate.NewRedisStore(d.Cache)
	} else {
		memStore := gate.NewMemoryStore()
		memStore.StartSweeper(context.Background(), sweepInterval, d.Logger)
		limitStore = memStore
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	app.Use(gate.CORS(gate.CORSConfig{
		ExtraOrigin: d.Cfg.AllowedOrigin,
		Production:  d.Cfg.IsProduction(),
	}))
	app.Use(gate.RateLimit(limitStore, gate.NewClassifier(), d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Stores
	var principalRepo principal.Repository
	var accountRepo account.Repository
	if d.DB != nil {
		principalRepo = principal.NewPostgresRepository(d.DB)
		accountRepo = account.NewPostgresRepository(d.DB)
	} else {
		principalRepo = principal.NewMemoryRepository()
		accountRepo = account.NewMemoryRepository()
	}

	// Collaborators
	sender := d.SMS
	if sender == nil {
		sender = sms.NewLoggerSender(d.Logger)
	}
	images := media.NewDiscardStore(d.Logger)
	notifier := notify.NewLoggerNotifier(d.Logger)

	// Services and handlers
	tokens, err := session.NewTokenIssuer(d.Cfg.JWTSecret, d.Cfg.TokenTTL)
	if err != nil {
		return err
	}
	userSessions := session.NewService(principalRepo, tokens, sender, images, d.Cfg.OTPTTL, d.Cfg.SMSTimeout, d.Logger)
	adminSessions := session.NewAdminService(principalRepo, tokens, d.Logger)
	sessionHandler := session.NewHandler(userSessions, adminSessions, tokens.TTL(), d.Cfg.IsProduction())

	accountSvc := account.NewService(accountRepo, principalRepo, d.Logger)
	accountHandler := account.NewHandler(accountSvc)
	contactHandler := contact.NewHandler(notifier)

	// API routes
	api := app.Group("/api")

	requireUser := session.RequireUser(userSessions)
	requireAdmin := session.RequireAdmin(adminSessions)

	RegisterAuthRoutes(api, sessionHandler, requireUser)
	RegisterAdminRoutes(api, sessionHandler, accountHandler, requireAdmin)
	RegisterAccountRoutes(api, accountHandler, requireUser)
	api.Post("/contact", contactHandler.Submit)

	return nil
}
