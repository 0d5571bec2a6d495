package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/fairsplit/fairsplit/internal/api"
	"github.com/fairsplit/fairsplit/internal/auth"
	"github.com/fairsplit/fairsplit/internal/service"
	"github.com/fairsplit/fairsplit/internal/storage/sqlite"
	"github.com/fairsplit/fairsplit/pkg/logging"
)

func main() {
	logging.Setup()

	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "data/fairsplit.db")
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	tokenTTL := getEnvDuration("TOKEN_TTL_HOURS", 24)

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Database ready", "path", dbPath)

	tokens := auth.NewJWTManager(jwtSecret, tokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	users := service.NewUserService(store)
	groups := service.NewGroupService(store)
	expenses := service.NewExpenseService(store)
	payments := service.NewPaymentService(store)
	requests := service.NewRequestService(store, payments)

	handler := api.New(authenticator, tokens, users, groups, expenses, requests, payments).Router()

	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Server listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallbackHours int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if hours, err := strconv.Atoi(value); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
		slog.Warn("Invalid duration, using default", "key", key, "value", value)
	}
	return time.Duration(fallbackHours) * time.Hour
}
