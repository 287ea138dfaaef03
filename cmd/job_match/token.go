package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/job-match/internal/server"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the employer view",
	Long:  "Signs a JWT with the configured secret. The email must also be listed in employer-emails for the token to open GET /api/jobs/{id}/candidates.",
	RunE:  runToken,
}

var (
	tokenEmail  string
	tokenUserID string
)

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim (required)")
	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "User ID claim (default: random UUID)")

	if err := tokenCmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("failed to mark email flag as required: %v", err))
	}

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	if !cfg.JWT.Enabled() {
		return fmt.Errorf("JWT secret is not configured (set JWT_SECRET or jwt.secret)")
	}

	userID := uuid.New()
	if tokenUserID != "" {
		userID, err = uuid.Parse(tokenUserID)
		if err != nil {
			return fmt.Errorf("invalid user ID %q: %w", tokenUserID, err)
		}
	}

	token, err := server.NewJWTService(&cfg.JWT).GenerateToken(userID, tokenEmail)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
