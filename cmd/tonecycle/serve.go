package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/tonecycle/internal/config"
	"github.com/jonathan/tonecycle/internal/llm"
	"github.com/jonathan/tonecycle/internal/logging"
	"github.com/jonathan/tonecycle/internal/server"
	"github.com/jonathan/tonecycle/internal/server/ratelimit"
	"github.com/jonathan/tonecycle/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start an HTTP server that exposes sessions, messages, the stored credential and guide lint.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	env := appEnv
	if servePort != 0 {
		env.Port = servePort
	}

	jwtCfg, err := env.JWT()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// sessions live in Redis when configured; the server never uses the state file
	store, closeStore, err := openStateStore(ctx, env, "")
	if err != nil {
		return err
	}
	defer closeStore()

	creds, closeCreds, err := openCredentials(ctx, env.DatabaseURL, env.CredentialKey)
	if err != nil {
		return err
	}
	defer closeCreds()

	cfg := config.Config{
		Guide:                 env.GuidePath,
		APIKey:                env.GeminiAPIKey,
		BatchSize:             env.BatchSize,
		MaxAttempts:           env.MaxAttempts,
		AttemptTimeoutSeconds: int(env.AttemptTimeout / time.Second),
	}
	scfg, err := sessionConfig(ctx, cfg)
	if err != nil {
		return err
	}

	manager := session.NewManager(store, llm.NewFactory(llmConfig(env.Tier, env.Model)), creds, scfg)
	srv := server.New(server.Config{
		Port:           env.Port,
		AllowedOrigins: env.AllowedOrigins,
		RateLimit:      ratelimit.NewConfig(env.RateLimit.PerMinute, env.RateLimit.Burst),
		WriteTimeout:   writeTimeout(env),
	}, manager, server.NewJWTService(jwtCfg))

	logging.Info().
		Int("port", env.Port).
		Bool("redis", env.Redis.URL != "").
		Bool("credential_store", creds != nil).
		Msg("serving")

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// writeTimeout must outlast every attempt of one message
func writeTimeout(env *config.Env) time.Duration {
	return time.Duration(env.MaxAttempts)*env.AttemptTimeout + 30*time.Second
}
