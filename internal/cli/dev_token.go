package cli

import (
	"fmt"
	"time"

	"github.com/SscSPs/rental_reconciler/internal/platform/config"
	"github.com/SscSPs/rental_reconciler/internal/utils"
	"github.com/spf13/cobra"
)

func newDevTokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "dev-token",
		Short: "Mint a JWT for the HTTP API signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.IsProduction {
				return fmt.Errorf("refusing to mint development tokens with IS_PRODUCTION set")
			}
			token, err := utils.GenerateJWT(userID, cfg.JWTSecret, ttl, cfg.JWTIssuer)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "Subject (user id) of the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
