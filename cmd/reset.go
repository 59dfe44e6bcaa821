package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local XP, streak, and lesson progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("this wipes all local progress; re-run with --force to confirm")
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

		progStore := progress.NewStore(st.ProgressRepo(), st.EventRepo(), nil)
		if err := progStore.ResetStats(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Local progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Confirm the reset")
}
