package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget a user: delete every recorded event of one Telegram user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		user, _ := cmd.Flags().GetInt64("user")
		if user <= 0 {
			return fmt.Errorf("--user must be a positive Telegram user ID")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.EventRepo().DeleteUser(cmd.Context(), user)
		if err != nil {
			return fmt.Errorf("forget user %d: %w", user, err)
		}
		logger.Info("user events deleted", zap.Int64("user_id", user), zap.Int64("events", n))
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d events of user %d.\n", n, user)
		return nil
	},
}

func init() {
	resetCmd.Flags().Int64("user", 0, "Telegram user ID")
	_ = resetCmd.MarkFlagRequired("user")
}
