package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fintrack/internal/services"
)

var (
	flagName     string
	flagEmail    string
	flagPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account",
	RunE:  runUserAdd,
}

func init() {
	userAddCmd.Flags().StringVar(&flagName, "name", "", "display name")
	userAddCmd.Flags().StringVar(&flagEmail, "email", "", "login email")
	userAddCmd.Flags().StringVar(&flagPassword, "password", "", "login password")
	for _, f := range []string{"name", "email", "password"} {
		_ = userAddCmd.MarkFlagRequired(f)
	}

	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	auth := services.NewAuthService(s.res.Store, s.cfg.BcryptCost)
	user, err := auth.Signup(cmd.Context(), flagName, flagEmail, flagPassword)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created user %d <%s>\n", user.ID, user.Email)
	return nil
}
