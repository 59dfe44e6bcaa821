package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harmonyquest/harmonyquest/internal/etiquette"
	"github.com/harmonyquest/harmonyquest/internal/store"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the culture guide a question",
	Long:  "Ask a one-off cultural etiquette question without opening the TUI, e.g.\n\n  hquest ask \"How should I greet an elder in Japan?\"",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		if err := etiquette.ValidateQuery(query); err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := newProviderFromEnv(cmd, st.EventRepo())
		if err != nil {
			return fmt.Errorf("model provider not configured: %w", err)
		}

		answer, err := etiquette.NewService(provider).Ask(cmd.Context(), query)
		if err != nil {
			return err
		}

		fmt.Println(answer.Text)
		return nil
	},
}
