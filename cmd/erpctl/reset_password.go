package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"jewel-erp/internal/repository"
	"jewel-erp/pkg/logger"
)

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a user's password and revoke their sessions",
	Example: `  erpctl reset-password --email admin@example.com --password s3cret!`,
	RunE: runResetPassword,
}

func init() {
	rootCmd.AddCommand(resetPasswordCmd)

	resetPasswordCmd.Flags().String("email", "", "Email of the account to reset")
	resetPasswordCmd.Flags().String("password", "", "New password (min 6 characters)")
	_ = resetPasswordCmd.MarkFlagRequired("email")
	_ = resetPasswordCmd.MarkFlagRequired("password")
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("reset-password")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	users := repository.NewUserRepo(db)
	ctx := cmd.Context()

	user, err := users.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("user %s not found", email)
		}
		return err
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	if err := users.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := users.UpdateTokenVersion(ctx, user.ID, uuid.New().String()); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	log.Info().Str("email", email).Msg("password reset, existing sessions revoked")
	return nil
}
