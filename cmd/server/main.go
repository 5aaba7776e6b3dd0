package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garage_manager/internal/auth"
	"garage_manager/internal/config"
	"garage_manager/internal/database"
	"garage_manager/internal/handlers"
	"garage_manager/internal/mq"
	"garage_manager/internal/redis"
	"garage_manager/internal/repository"
	"garage_manager/internal/services"
	"garage_manager/internal/telemetry"
	"garage_manager/pkg/logger"
	"garage_manager/pkg/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.Env)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	loc := cfg.Location()

	decimal.MarshalJSONWithoutQuotes = true
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing := telemetry.Setup(cfg.OTelServiceName)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, database.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		Debug:        cfg.Env == "dev",
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	// Ticket events are optional
	var publisher *mq.RabbitPublisher
	if cfg.RabbitMQURL != "" {
		publisher, err = mq.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQTicketExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		log.Info().Str("exchange", cfg.RabbitMQTicketExchange).Msg("publishing ticket events")
	}

	whatsappClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
	if !whatsappClient.Enabled() {
		log.Warn().Msg("WHATSAPP_API_URL not set, customer notifications disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	itemRepo := repository.NewTicketItemRepository(db)

	// Initialize services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(userRepo, tokens, redisClient, log)
	vehicleService := services.NewVehicleService(vehicleRepo, userRepo, catalogRepo)
	catalogService := services.NewCatalogService(catalogRepo, redisClient, time.Duration(cfg.CacheTTL)*time.Second, log)
	appointmentService := services.NewAppointmentService(appointmentRepo, userRepo, catalogRepo, loc)
	ticketService := services.NewTicketService(services.TicketDeps{
		Tickets:   ticketRepo,
		Items:     itemRepo,
		Vehicles:  vehicleRepo,
		Users:     userRepo,
		Catalog:   catalogRepo,
		Publisher: publisher,
		Notifier:  services.NewWhatsAppNotifier(whatsappClient, log),
	}, services.StatusPolicy{Statuses: cfg.TicketStatuses, Strict: cfg.TicketStatusStrict}, loc, log)

	// Setup routes
	router := handlers.NewRouter(handlers.RouterConfig{
		Users:        userService,
		Vehicles:     vehicleService,
		Catalog:      catalogService,
		Appointments: appointmentService,
		Tickets:      ticketService,
		Tokens:       tokens,
		Revocations:  redisClient,
		CookieSecure: cfg.CookieSecure,
		Health: []handlers.HealthCheck{
			{Name: "database", Check: sqlDB.PingContext},
			{Name: "redis", Check: redisClient.Ping},
		},
		Log: log,
	})

	var handler http.Handler = router
	handler = httprate.LimitByIP(cfg.RateLimit, time.Minute)(handler)
	handler = cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})(handler)
	handler = otelhttp.NewHandler(handler, "garage-api")

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("rabbitmq close")
	}
	if err := redisClient.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("database close")
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
}
