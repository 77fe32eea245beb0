package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/tonecycle/internal/config"
	"github.com/jonathan/tonecycle/internal/ingestion"
	"github.com/jonathan/tonecycle/internal/llm"
	"github.com/jonathan/tonecycle/internal/observability"
	"github.com/jonathan/tonecycle/internal/session"
	"github.com/jonathan/tonecycle/internal/types"
)

// errRewriteFailed makes the process exit non-zero after the failure text was printed
var errRewriteFailed = errors.New("rewrite failed")

// runMessage sends one message through a session manager and prints the response.
// Regular output goes to out; verbose detail goes to detail. A nil factory talks
// to the configured model.
func runMessage(ctx context.Context, env *config.Env, opts *messageOptions, msgType string, factory llm.Factory, out, detail io.Writer) error {
	cfg, err := opts.resolve(env, configPath)
	if err != nil {
		return err
	}

	msg := types.Message{Type: msgType, Mode: cfg.Mode}
	if msgType != types.MessageResetTone {
		if msg.Text, err = readSelection(opts); err != nil {
			return err
		}
	}

	scfg, err := sessionConfig(ctx, cfg)
	if err != nil {
		return err
	}

	store, closeStore, err := openStateStore(ctx, env, cfg.StateFile)
	if err != nil {
		return err
	}
	defer closeStore()

	creds, closeCreds, err := openCredentials(ctx, cfg.DatabaseURL, env.CredentialKey)
	if err != nil {
		return err
	}
	defer closeCreds()

	if factory == nil {
		factory = llm.NewFactory(llmConfig(cfg.Tier, cfg.Model))
	}
	manager := session.NewManager(store, factory, creds, scfg)
	result, err := manager.Handle(ctx, cfg.SessionID, msg)
	if err != nil {
		return err
	}

	if verbose || cfg.Verbose {
		printDetail(detail, result)
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Response); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
	} else {
		_, _ = fmt.Fprintln(out, result.Response.Output)
	}

	if result.Response.Error {
		return errRewriteFailed
	}
	return nil
}

// readSelection takes the text from --text or --file
func readSelection(opts *messageOptions) (string, error) {
	switch {
	case opts.text != "" && opts.file != "":
		return "", fmt.Errorf("use either --text or --file, not both")
	case opts.file != "":
		content, _, err := ingestion.IngestFromFile(opts.file)
		if err != nil {
			return "", err
		}
		return content, nil
	case opts.text != "":
		return opts.text, nil
	}
	return "", fmt.Errorf("text is required (use --text or --file)")
}

func printDetail(w io.Writer, result *session.Result) {
	p := observability.NewPrinter(w)
	p.PrintSelection(result.Metadata)
	if len(result.Batch) > 0 && result.Directives != nil {
		p.PrintDirectives(result.Directives, result.Catalogue)
		p.PrintBatch(result.Batch, result.State)
	}
	if result.Outcome != nil {
		p.PrintAttempts(result.Outcome.Attempts)
		p.PrintVariants(result.Outcome.Variants)
	}
}

func stdoutMessage(msgType string, opts *messageOptions) error {
	return runMessage(context.Background(), appEnv, opts, msgType, nil, os.Stdout, os.Stderr)
}
