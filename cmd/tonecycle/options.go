package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/tonecycle/internal/config"
	"github.com/jonathan/tonecycle/internal/db"
	"github.com/jonathan/tonecycle/internal/guideline"
	"github.com/jonathan/tonecycle/internal/llm"
	"github.com/jonathan/tonecycle/internal/rewriting"
	"github.com/jonathan/tonecycle/internal/session"
	"github.com/jonathan/tonecycle/internal/tonecycle"
	"github.com/jonathan/tonecycle/internal/types"
)

const (
	defaultSessionID = "default"
	defaultStateFile = ".tonecycle/state.json"
)

// messageOptions are the flags shared by rewrite, cycle and reset
type messageOptions struct {
	text        string
	file        string
	guide       string
	mode        string
	sessionID   string
	stateFile   string
	apiKey      string
	model       string
	tier        string
	batchSize   int
	maxAttempts int
	jsonOut     bool
}

func (o *messageOptions) register(cmd *cobra.Command, withText bool) {
	f := cmd.Flags()
	if withText {
		f.StringVarP(&o.text, "text", "t", "", "Text to rewrite")
		f.StringVarP(&o.file, "file", "f", "", "Read the text to rewrite from a file (plain text or HTML)")
		f.StringVarP(&o.guide, "guide", "g", "", "Path or URL of a style guide (JSON or YAML)")
		f.StringVarP(&o.mode, "mode", "m", "", "rewrite or compose")
		f.StringVar(&o.apiKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
		f.StringVar(&o.model, "model", "", "Model name (overrides the tier)")
		f.StringVar(&o.tier, "tier", "", "Model tier: lite, standard or advanced")
		f.IntVar(&o.batchSize, "batch-size", 0, "Tones per batch")
		f.IntVar(&o.maxAttempts, "max-attempts", 0, "Service calls per batch")
		f.BoolVar(&o.jsonOut, "json", false, "Print the full response as JSON")
	}
	f.StringVarP(&o.sessionID, "session", "s", "", "Session key inside the state file")
	f.StringVar(&o.stateFile, "state-file", "", "Where tone cycle state is kept between runs")
}

// resolve merges flags over the config file over the environment
func (o *messageOptions) resolve(env *config.Env, cfgPath string) (config.Config, error) {
	cfg := config.Config{
		Guide:       o.guide,
		StateFile:   o.stateFile,
		SessionID:   o.sessionID,
		Mode:        o.mode,
		APIKey:      o.apiKey,
		Model:       o.model,
		Tier:        o.tier,
		BatchSize:   o.batchSize,
		MaxAttempts: o.maxAttempts,
	}

	if cfgPath != "" {
		fileCfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
		cfg.Verbose = cfg.Verbose || fileCfg.Verbose
	}

	stateFile := env.StateFile
	if stateFile == "" {
		stateFile = defaultStateFile
	}
	cfg = cfg.MergeWithDefaults(config.Config{
		Guide:                 env.GuidePath,
		StateFile:             stateFile,
		SessionID:             defaultSessionID,
		Mode:                  types.ModeRewrite,
		APIKey:                env.GeminiAPIKey,
		Model:                 env.Model,
		Tier:                  env.Tier,
		BatchSize:             env.BatchSize,
		MaxAttempts:           env.MaxAttempts,
		AttemptTimeoutSeconds: int(env.AttemptTimeout / time.Second),
		DatabaseURL:           env.DatabaseURL,
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// llmConfig picks the model for the resolved tier and override
func llmConfig(tier, model string) *llm.Config {
	c := llm.DefaultConfig().WithTier(llm.ParseTier(tier))
	if model != "" {
		c = c.WithModel(model)
	}
	return c
}

// sessionConfig builds the manager configuration, loading the default guide if one is set
func sessionConfig(ctx context.Context, cfg config.Config) (session.Config, error) {
	out := session.Config{
		BatchSize: cfg.BatchSize,
		Rewriter: rewriting.Config{
			Policy: rewriting.Policy{
				MaxAttempts:     cfg.MaxAttempts,
				AttemptTimeout:  time.Duration(cfg.AttemptTimeoutSeconds) * time.Second,
				StrictToneMatch: true,
			},
			Params: llm.DefaultGenerationParams(),
		},
		FallbackAPIKey: cfg.APIKey,
	}
	if cfg.Guide != "" {
		doc, err := guideline.Open(ctx, cfg.Guide)
		if err != nil {
			return session.Config{}, err
		}
		out.DefaultGuide = doc
	}
	return out, nil
}

// openStateStore uses Redis when configured, otherwise the state file.
// An empty stateFile means state lives only in memory.
func openStateStore(ctx context.Context, env *config.Env, stateFile string) (tonecycle.Store, func(), error) {
	if env.Redis.URL != "" {
		client, err := env.Redis.NewClient(ctx)
		if err != nil {
			return nil, nil, err
		}
		ttl := time.Duration(env.Redis.TTLHours) * time.Hour
		return tonecycle.NewRedisStore(client, env.Redis.KeyPrefix, ttl), func() { _ = client.Close() }, nil
	}
	if stateFile == "" {
		return tonecycle.NewMemoryStore(), func() {}, nil
	}
	path, err := filepath.Abs(stateFile)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid state file path: %w", err)
	}
	return tonecycle.NewFileStore(path), func() {}, nil
}

// openCredentials connects the sealed credential store. Without both a database
// URL and a sealing key it returns nil and no error.
func openCredentials(ctx context.Context, databaseURL, sealingKey string) (session.CredentialStore, func(), error) {
	if databaseURL == "" || sealingKey == "" {
		return nil, func() {}, nil
	}

	key, err := db.ParseKey(sealingKey)
	if err != nil {
		return nil, nil, err
	}
	sealer, err := db.NewSealer(key)
	if err != nil {
		return nil, nil, err
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}
	return db.NewCredentialStore(database, sealer, db.DefaultCredentialName), database.Close, nil
}
