package cmd

import (
	"github.com/harmonyquest/harmonyquest/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hquest",
	Short: "Gamified cultural learning in your terminal",
	Long:  "Harmony Quest — a terminal client for learning cultural traditions, etiquette, and festivals through bite-sized quiz lessons.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides HQUEST_DB env var)")
	rootCmd.PersistentFlags().String("api", "", "Backend base URL (overrides HQUEST_API_URL env var)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then HQUEST_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// apiBaseURL returns the --api flag value, or empty to let the client
// fall back to HQUEST_API_URL and its built-in default.
func apiBaseURL(cmd *cobra.Command) string {
	u, _ := cmd.Flags().GetString("api")
	return u
}
