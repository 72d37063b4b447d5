package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"eventhub/internal/config"
	"eventhub/internal/database"
	"eventhub/internal/domain"
	"eventhub/internal/middleware"
	"eventhub/internal/modules/auth"
	"eventhub/internal/modules/event"
	jwtsvc "eventhub/internal/pkg/jwt"
	"eventhub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.RefreshToken{},
		&domain.BlacklistedToken{},
		&domain.EmailConfirmationCode{},
		&domain.Event{},
		&domain.EventRegistration{},
	); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	blacklistRepo := repository.NewBlacklistedTokenRepository(db)
	codeRepo := repository.NewConfirmationCodeRepository(db)
	eventRepo := repository.NewEventRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	var mailer auth.Mailer
	if cfg.SMTPConfigured() {
		mailer = auth.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	} else {
		log.Println("SMTP not configured, confirmation codes go to the log")
		mailer = auth.NewDevConsoleMailer(true)
	}

	authService := auth.NewService(
		userRepo,
		refreshRepo,
		blacklistRepo,
		codeRepo,
		j,
		mailer,
		cfg.RefreshTokenPepper,
		cfg.RefreshTTL,
		cfg.ConfirmCodePepper,
		cfg.ConfirmCodeTTL,
		cfg.ConfirmResendCooldown,
	)
	authHandler := auth.NewHandler(authService)

	eventService := event.NewService(eventRepo)
	eventHandler := event.NewHandler(eventService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j, blacklistRepo))
		{
			authHandler.RegisterProtectedRoutes(protected)
			eventHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
