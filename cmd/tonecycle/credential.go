package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/tonecycle/internal/session"
)

var credentialReveal bool

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Manage the stored API key",
	Long: "The API key is sealed with TONECYCLE_CREDENTIAL_KEY and kept in the database at " +
		"TONECYCLE_DATABASE_URL. A key passed with a message is stored the same way.",
}

var credentialGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withCredentials(func(ctx context.Context, store session.CredentialStore) error {
			return runCredentialGet(ctx, store, credentialReveal, os.Stdout)
		})
	},
}

var credentialSetCmd = &cobra.Command{
	Use:   "set <value>",
	Short: "Store an API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withCredentials(func(ctx context.Context, store session.CredentialStore) error {
			return runCredentialSet(ctx, store, args[0], os.Stdout)
		})
	},
}

var credentialClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withCredentials(func(ctx context.Context, store session.CredentialStore) error {
			return runCredentialSet(ctx, store, "", os.Stdout)
		})
	},
}

func init() {
	credentialGetCmd.Flags().BoolVar(&credentialReveal, "reveal", false, "Print the full key instead of a masked one")
	credentialCmd.AddCommand(credentialGetCmd, credentialSetCmd, credentialClearCmd)
	rootCmd.AddCommand(credentialCmd)
}

func withCredentials(fn func(context.Context, session.CredentialStore) error) error {
	ctx := context.Background()
	store, closeStore, err := openCredentials(ctx, appEnv.DatabaseURL, appEnv.CredentialKey)
	if err != nil {
		return err
	}
	defer closeStore()
	if store == nil {
		return fmt.Errorf("credential store requires DATABASE_URL and CREDENTIAL_KEY")
	}
	return fn(ctx, store)
}

func runCredentialGet(ctx context.Context, store session.CredentialStore, reveal bool, out io.Writer) error {
	value, err := store.GetCredential(ctx)
	if err != nil {
		return err
	}
	switch {
	case value == "":
		_, _ = fmt.Fprintln(out, "No API key stored.")
	case reveal:
		_, _ = fmt.Fprintln(out, value)
	default:
		_, _ = fmt.Fprintln(out, mask(value))
	}
	return nil
}

func runCredentialSet(ctx context.Context, store session.CredentialStore, value string, out io.Writer) error {
	value = strings.TrimSpace(value)
	if err := store.SetCredential(ctx, value); err != nil {
		return err
	}
	if value == "" {
		_, _ = fmt.Fprintln(out, "API key removed.")
	} else {
		_, _ = fmt.Fprintln(out, "API key stored.")
	}
	return nil
}

// mask keeps the last four characters
func mask(value string) string {
	runes := []rune(value)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
