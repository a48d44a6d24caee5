package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/metaman/internal/app"
	"github.com/yungbote/metaman/internal/platform/logger"
	"github.com/yungbote/metaman/internal/platform/shutdown"
	"github.com/yungbote/metaman/internal/services"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	issueToken := flag.String("issue-token", "", "print a bearer token for the given author id and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of a token printed by -issue-token")
	flag.Parse()

	if *issueToken != "" {
		token, err := issueTokenFor(*issueToken, *tokenTTL)
		if err != nil {
			fmt.Printf("issue token: %v\n", err)
			os.Exit(2)
		}
		fmt.Println(token)
		return
	}

	a, err := app.New(context.Background(), app.Options{MigrateOnly: *migrateOnly})
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if *migrateOnly {
		a.Log.Info("Migrations applied")
		return
	}

	ctx, stop := shutdown.NotifyContext(context.Background(), a.Log)
	defer stop()

	if err := a.Run(ctx); err != nil {
		a.Log.Error("server exited", "error", err)
		a.Close()
		os.Exit(1)
	}
}

// issueTokenFor signs a token with the configured secret without touching
// the database or Redis.
func issueTokenFor(rawID string, ttl time.Duration) (string, error) {
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return "", fmt.Errorf("invalid author id: %w", err)
	}
	cfg, err := app.LoadConfig(nil)
	if err != nil {
		return "", err
	}
	return services.NewAuthService(logger.Nop(), cfg.Auth.JWTSecret).IssueToken(userID, ttl)
}
