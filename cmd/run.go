package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harmonyquest/harmonyquest/internal/api"
	"github.com/harmonyquest/harmonyquest/internal/app"
	"github.com/harmonyquest/harmonyquest/internal/auth"
	"github.com/harmonyquest/harmonyquest/internal/etiquette"
	"github.com/harmonyquest/harmonyquest/internal/lessons"
	"github.com/harmonyquest/harmonyquest/internal/llm"
	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	client := api.New(apiBaseURL(cmd))
	eventRepo := st.EventRepo()

	progStore := progress.NewStore(st.ProgressRepo(), eventRepo, client)
	if err := progStore.LoadLocal(ctx); err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	authSvc := auth.NewService(client, st.SessionRepo())
	sess, err := authSvc.Current(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not read saved session:", err)
	}

	opts := app.Options{
		Progress: progStore,
		Auth:     authSvc,
		Lessons:  lessons.NewService(client),
		Session:  sess,
	}

	provider, err := newProviderFromEnv(cmd, eventRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Model provider not configured:", err)
		fmt.Fprintln(os.Stderr, "The culture guide will be unavailable.")
	} else {
		opts.Etiquette = etiquette.NewService(provider)
	}

	return app.Run(opts)
}

// newProviderFromEnv builds a model provider from HQUEST_* variables,
// falling back to probing the standard provider API key variables.
func newProviderFromEnv(cmd *cobra.Command, eventRepo store.EventRepo) (llm.Provider, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, err
		}
		cfg = discovered
	}
	return llm.NewProvider(cmd.Context(), cfg, eventRepo)
}
