package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"talentflow/internal/jwttoken"
	"talentflow/internal/platform/config"
	id "talentflow/pkg/domain"
)

var (
	tokenUserID string
	tokenRole   string
	tokenTTL    time.Duration
)

// tokenCmd mints a bearer token for local development and manual API
// testing against a server running with the same signing key.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate a development bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		userID, err := id.ParseUserID(tokenUserID)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		role, err := id.ParseRole(tokenRole)
		if err != nil {
			return fmt.Errorf("invalid --role: %w", err)
		}

		tokens := jwttoken.NewService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
		token, err := tokens.GenerateAccessToken(userID, role, tokenTTL)
		if err != nil {
			return fmt.Errorf("generating token: %w", err)
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id (uuid)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "employee", "role: employee, manager, hr or admin")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}
