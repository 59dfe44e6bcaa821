package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harmonyquest/harmonyquest/internal/api"
	"github.com/harmonyquest/harmonyquest/internal/auth"
	"github.com/harmonyquest/harmonyquest/internal/store"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a Harmony Quest account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if name == "" || email == "" || password == "" {
			return fmt.Errorf("--name, --email, and --password are all required")
		}
		if len(password) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
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

		client := api.New(apiBaseURL(cmd))
		authSvc := auth.NewService(client, st.SessionRepo())

		sess, err := authSvc.Register(cmd.Context(), name, email, password)
		if err != nil {
			return fmt.Errorf("%s", auth.UserMessage(err))
		}

		fmt.Printf("Account created. Signed in as %s <%s>.\n", sess.Name, sess.Email)
		return nil
	},
}

func init() {
	registerCmd.Flags().String("name", "", "Display name")
	registerCmd.Flags().String("email", "", "Account email")
	registerCmd.Flags().String("password", "", "Account password (min 8 characters)")
}
