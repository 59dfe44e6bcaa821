package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harmonyquest/harmonyquest/internal/etiquette"
	"github.com/harmonyquest/harmonyquest/internal/store"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize a cultural article with the AI guide",
	Long:  "Reads an article from the given file, or from stdin when no file is named,\nand prints a concise plain-text summary, e.g.\n\n  hquest summarize article.txt\n  curl -s https://example.org/article | hquest summarize",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			text []byte
			err  error
		)
		if len(args) == 1 {
			text, err = os.ReadFile(args[0])
		} else {
			text, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("read article: %w", err)
		}
		if err := etiquette.ValidateArticle(string(text)); err != nil {
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

		summary, err := etiquette.NewService(provider).Summarize(cmd.Context(), string(text))
		if err != nil {
			return err
		}

		fmt.Println(summary.Text)
		return nil
	},
}
