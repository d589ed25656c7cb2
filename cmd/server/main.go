package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"babywords/internal/config"
	"babywords/internal/database"
	"babywords/internal/handlers"
	"babywords/internal/repository"
	"babywords/internal/security"
	"babywords/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

const (
	stepDatabase   = "Database connection"
	stepMigrations = "Running migrations"
	stepServices   = "Initializing services"
)

func main() {
	cfg := config.Load()

	startup := handlers.NewStartupStatus(stepDatabase, stepMigrations, stepServices)

	startup.SetCurrentStep(stepDatabase)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.CompleteStep(stepDatabase)

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	startup.SetCurrentStep(stepMigrations)
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	startup.CompleteStep(stepMigrations)

	log.Println("Migrations completed successfully")

	startup.SetCurrentStep(stepServices)
	if cfg.CSRFSecret == "change-me" {
		log.Println("Warning: CSRF_SECRET is not set, using the built-in default")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	babyRepo := repository.NewBabyRepository(db)
	wordRepo := repository.NewWordRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	babyService := service.NewBabyService(babyRepo)
	wordService := service.NewWordService(wordRepo, babyService)
	statsService := service.NewStatsService(wordRepo, babyService)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	digestService := service.NewDigestService(statsService, emailService)

	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	limiter := security.NewRateLimiter(10, time.Minute)

	router := &handlers.Router{
		Middleware: handlers.NewMiddleware(authService, csrf, limiter, cfg.CORSOrigin),
		Auth:       handlers.NewAuthHandler(authService, csrf, oauthProviders(cfg), cfg.OAuthRedirectBaseURL, cfg.OAuthSuccessURL),
		Babies:     handlers.NewBabyHandler(babyService),
		Words:      handlers.NewWordHandler(wordService),
		Stats:      handlers.NewStatsHandler(statsService, digestService),
		Startup:    startup,
	}
	startup.CompleteStep(stepServices)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go cleanupLoop(ctx, authService, limiter)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()
	startup.MarkReady()

	<-ctx.Done()
	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}

func oauthProviders(cfg *config.Config) map[string]handlers.OAuthProvider {
	return map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
		"apple": {
			Name:  "apple",
			Label: "Apple",
			Config: &oauth2.Config{
				ClientID:     cfg.AppleClientID,
				ClientSecret: cfg.AppleClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"name", "email"},
			},
			AuthParams: map[string]string{
				"response_mode": "query",
			},
		},
	}
}

// cleanupLoop periodically removes expired sessions and idle rate limit buckets
func cleanupLoop(ctx context.Context, authService *service.AuthService, limiter *security.RateLimiter) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := authService.CleanupExpiredSessions(); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			} else {
				log.Println("Expired sessions cleaned up")
			}
			limiter.Cleanup()
		}
	}
}
