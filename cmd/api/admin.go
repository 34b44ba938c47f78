package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/service"
)

// errAdminNeedsPostgres is returned when create-admin would only write to a
// store that disappears when the command exits.
var errAdminNeedsPostgres = errors.New("create-admin requires POSTGRES_DSN; the in-memory store does not outlive this command")

var adminOpts struct {
	name     string
	email    string
	password string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Provision an administrator account",
	Long: `Provision an administrator account in Postgres. Admins cannot sign up over HTTP.

	booking-service create-admin --name Root --email root@example.com --password s3cret!`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := newBootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer b.close()

		user, err := createAdmin(cmd.Context(), b, adminOpts.name, adminOpts.email, adminOpts.password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminOpts.name, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminOpts.email, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminOpts.password, "password", "", "login password")
	_ = createAdminCmd.MarkFlagRequired("name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}

func createAdmin(ctx context.Context, b *bootstrap, name, email, password string) (*domain.User, error) {
	if !b.postgres.Enabled() {
		return nil, errAdminNeedsPostgres
	}
	if b.cfg.Postgres.RunMigrations {
		if err := b.migrate(ctx); err != nil {
			return nil, err
		}
	}

	authService := service.NewAuthService(b.cfg.Auth, service.AuthDependencies{UserRepo: b.users, Logger: b.logger})
	user, err := authService.CreateAdmin(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	b.logger.Info("admin created", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}
