package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harmonyquest/harmonyquest/internal/auth"
	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/store"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear local progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		authSvc := auth.NewService(nil, st.SessionRepo())
		if err := authSvc.Logout(ctx); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}

		progStore := progress.NewStore(st.ProgressRepo(), st.EventRepo(), nil)
		if err := progStore.ResetStats(ctx); err != nil {
			return fmt.Errorf("reset stats: %w", err)
		}

		fmt.Println("Signed out. Local progress cleared.")
		return nil
	},
}
