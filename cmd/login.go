package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harmonyquest/harmonyquest/internal/api"
	"github.com/harmonyquest/harmonyquest/internal/auth"
	"github.com/harmonyquest/harmonyquest/internal/progress"
	"github.com/harmonyquest/harmonyquest/internal/store"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your Harmony Quest account",
	Long:  "Sign in with email and password, or with --oauth to upsert an identity\nalready verified by an external provider (pass --name and --email).",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")
		oauth, _ := cmd.Flags().GetBool("oauth")

		if oauth {
			if name == "" || email == "" {
				return fmt.Errorf("--oauth requires both --name and --email")
			}
		} else if email == "" || password == "" {
			return fmt.Errorf("both --email and --password are required")
		}

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

		client := api.New(apiBaseURL(cmd))
		authSvc := auth.NewService(client, st.SessionRepo())

		var sess *auth.Session
		if oauth {
			sess, err = authSvc.LoginOAuth(ctx, name, email)
		} else {
			sess, err = authSvc.Login(ctx, email, password)
		}
		if err != nil {
			return fmt.Errorf("%s", auth.UserMessage(err))
		}

		progStore := progress.NewStore(st.ProgressRepo(), st.EventRepo(), client)
		if err := progStore.LoadUserProgress(ctx, sess.UserID, sess.Token); err != nil {
			fmt.Fprintln(os.Stderr, "warning: could not pull remote progress:", err)
		}

		fmt.Printf("Signed in as %s <%s>. XP: %d, streak: %d days.\n",
			sess.Name, sess.Email, progStore.XP(), progStore.Streak())
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password")
	loginCmd.Flags().Bool("oauth", false, "Sign in with an externally verified identity")
	loginCmd.Flags().String("name", "", "Display name for --oauth sign-in")
}
