package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-TableService/internal/infra/storage/migrations"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить встроенные SQL-миграции",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			applied, err := migrations.Up(context.Background(), a.db, a.txMgr, a.log)
			if err != nil {
				a.log.Error("Migration failed after %d applied: %v", applied, err)
				return err
			}

			a.log.Info("Migrations applied: %d", applied)
			return nil
		},
	}
}
