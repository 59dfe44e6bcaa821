package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/harmonyquest/harmonyquest/internal/auth"
	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show XP, streak, and lesson progress",
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

		progStore := progress.NewStore(st.ProgressRepo(), st.EventRepo(), nil)
		if err := progStore.LoadLocal(ctx); err != nil {
			return err
		}

		authSvc := auth.NewService(nil, st.SessionRepo())
		if sess, err := authSvc.Current(ctx); err == nil && sess != nil {
			fmt.Printf("Signed in as %s <%s>\n\n", sess.Name, sess.Email)
		} else {
			fmt.Printf("Not signed in\n\n")
		}

		streak := progStore.Streak()
		fmt.Printf("XP:     %d\n", progStore.XP())
		fmt.Printf("Streak: %d days (next milestone: %d)\n\n", streak, progress.NextMilestone(streak))

		all := progStore.AllLessonProgress()
		if len(all) == 0 {
			fmt.Println("No lesson progress yet.")
			return nil
		}

		slugs := make([]string, 0, len(all))
		for slug := range all {
			slugs = append(slugs, slug)
		}
		sort.Strings(slugs)

		fmt.Println("Lessons:")
		for _, slug := range slugs {
			marker := " "
			if all[slug] == 100 {
				marker = "✓"
			}
			fmt.Printf("  %s %-32s %3d%%\n", marker, slug, all[slug])
		}
		return nil
	},
}
