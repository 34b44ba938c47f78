package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply embedded database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newBootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()
		if !rt.postgres.Enabled() {
			return errors.New("POSTGRES_DSN is required to run migrations")
		}
		return rt.migrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
