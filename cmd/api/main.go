package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pugly/api/internal/application/otp"
	"github.com/pugly/api/internal/config"
	"github.com/pugly/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/pugly/api/internal/infrastructure/jwt"
	redisinfra "github.com/pugly/api/internal/infrastructure/redis"
	"github.com/pugly/api/internal/infrastructure/smtp"
	"github.com/pugly/api/internal/infrastructure/sns"
	transporthttp "github.com/pugly/api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Redis for transient OTP state.
	redisClient := redisinfra.NewClient(cfg)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}

	jwtProvider, err := jwtinfra.NewProvider(
		cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	// OTP delivery channel: email by default, SMS via SNS when configured.
	var deliverer otp.Deliverer = smtp.NewMailer(cfg)
	if cfg.OTPChannel == "sms" {
		sender, err := sns.NewSender(cfg)
		if err != nil {
			log.Fatalf("sns sender: %v", err)
		}
		deliverer = sender
	}

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		StoreRepo:   dynamo.NewStoreRepo(dynamoClient, cfg.DynamoTables.Stores),
		Cache:       redisinfra.NewCache(redisClient),
		Deliverer:   deliverer,
		JWTProvider: jwtProvider,
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
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	_ = redisClient.Close()
	log.Println("Server stopped")
}
