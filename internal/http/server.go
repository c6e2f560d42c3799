package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dcamacho/rbm-gateway/internal/config"
	"github.com/dcamacho/rbm-gateway/internal/dedupe"
	"github.com/dcamacho/rbm-gateway/internal/handler"
	"github.com/dcamacho/rbm-gateway/internal/http/middleware"
	"github.com/dcamacho/rbm-gateway/internal/kafka"
	"github.com/dcamacho/rbm-gateway/internal/metrics"
	"github.com/dcamacho/rbm-gateway/internal/repository"
	"github.com/dcamacho/rbm-gateway/internal/router"
	"github.com/dcamacho/rbm-gateway/internal/signature"
	"github.com/jmoiron/sqlx"
	echo "github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var registerMetricsOnce sync.Once

type Server struct{ e *echo.Echo }

// NewServer wires the webhook pipeline and operator API. mysqlDB,
// clickhouseDB, rds and producer are optional collaborators: the webhook
// core runs without any of them.
func NewServer(cfg config.Config, mysqlDB, clickhouseDB *sqlx.DB, rds *redis.Client, producer *kafka.Producer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	// verifier
	scheme, ok := signature.ParseScheme(cfg.Webhook.SignatureScheme)
	if !ok {
		log.Warn("unknown signature scheme, using default", zap.String("scheme", cfg.Webhook.SignatureScheme))
	}
	verifier := signature.NewVerifier(cfg.Webhook.Secret, scheme, log)

	// optional collaborators
	var txRepo repository.TransactionsRepository
	var store handler.TransactionStore
	if mysqlDB != nil {
		repo := repository.NewTransactionsRepository(mysqlDB)
		txRepo = repo
		store = repo
	}

	var eventsRepo repository.EventsRepository
	if clickhouseDB != nil {
		eventsRepo = repository.NewEventsRepository(clickhouseDB)
	}

	var deduper handler.Deduper
	if rds != nil {
		deduper = dedupe.NewRedisDeduper(rds, cfg.Redis.DedupeTTL)
	}

	var publisher Publisher
	if producer != nil {
		publisher = producer
	}

	// handlers + router
	handlers := router.Handlers{
		Message:    handler.NewMessageHandler(deduper, log),
		UserStatus: handler.NewUserStatusHandler(log),
		Receipt:    handler.NewReceiptHandler(store, log),
		Suggestion: handler.NewSuggestionHandler(log),
	}
	policy, ok := router.ParseHandshakePolicy(cfg.Webhook.Handshake)
	if !ok {
		log.Warn("unknown handshake policy, using echo", zap.String("handshake", cfg.Webhook.Handshake))
	}
	rtr := router.New(handlers, policy, cfg.Webhook.ClientToken, log)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	// Failure bodies are always {"error": string}; internals stay in logs.
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}
		if code == http.StatusInternalServerError {
			log.Error("internal server error", zap.Error(err))
		}
		if c.Response().Committed {
			return
		}
		msg := http.StatusText(code)
		if code == http.StatusInternalServerError {
			msg = "Internal server error"
		}
		_ = c.JSON(code, map[string]string{"error": msg})
	}

	registerMetricsOnce.Do(func() {
		metrics.MustRegister(prometheus.DefaultRegisterer)
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// service metadata
	e.GET("/", homeHandler(cfg))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":            "healthy",
			"timestamp":         time.Now().UTC().Format(time.RFC3339),
			"secret_configured": !cfg.PermissiveMode(),
		})
	})

	// webhook
	e.POST("/webhook", webhookHandler(webhookDeps{
		verifier:  verifier,
		router:    rtr,
		sigHdr:    cfg.Webhook.SignatureHeader,
		debug:     cfg.Webhook.Debug,
		publisher: publisher,
		audit:     eventsRepo,
		log:       log,
	}))

	// operator API
	authMW := middleware.APIKeyMiddleware(cfg.API.Key)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:op:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	v1 := e.Group("/v1", authMW, rlMW)
	if txRepo != nil {
		v1.GET("/transactions", listTransactionsHandler(txRepo))
	}
	if eventsRepo != nil {
		v1.GET("/events", listEventsHandler(eventsRepo))
	}

	return &Server{e: e}
}

func homeHandler(cfg config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":          "online",
			"service":         "RCS Business Messaging Webhook Gateway",
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
			"validation_mode": cfg.PermissiveMode(),
			"endpoints": map[string]string{
				"webhook": "/webhook",
				"health":  "/health",
			},
		})
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.e }
