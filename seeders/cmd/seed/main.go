package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"itdesk/internal/repositories"
	"itdesk/internal/services"
	"itdesk/pkg/config"
	"itdesk/pkg/database/migrations"
	"itdesk/pkg/database/postgresql"
	applogger "itdesk/pkg/logger"
	"itdesk/pkg/utils"
	"itdesk/seeders"
)

var adminPassword string

func main() {
	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Обслуживание БД itdesk: миграции, тестовые данные, импорт",
	}

	rootCmd.AddCommand(
		newMigrateCommand(),
		newSeedCommand(),
		newImportAssetsCommand(),
		newHashPasswordCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*pgxpool.Pool, *config.Config, error) {
	cfg := config.New()
	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, err
	}
	return pool, cfg, nil
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Миграции схемы (goose)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Применить все новые миграции",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrations.Up(config.New().Postgres.DSN)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Откатить последнюю миграцию",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrations.Down(config.New().Postgres.DSN)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Показать состояние миграций",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrations.Status(config.New().Postgres.DSN)
			},
		},
	)
	return cmd
}

func newSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Тестовые данные",
	}
	cmd.PersistentFlags().StringVarP(&adminPassword, "password", "p", "password123", "Пароль для создаваемых сотрудников")

	admins := &cobra.Command{
		Use:   "admins",
		Short: "Создать сотрудников tech1 и tech2",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, _, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			_, err = seeders.SeedAdmins(cmd.Context(), pool, adminPassword)
			return err
		},
	}

	tickets := &cobra.Command{
		Use:   "tickets",
		Short: "Создать 15 тестовых тикетов",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, _, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			ids, err := seeders.SeedAdmins(cmd.Context(), pool, adminPassword)
			if err != nil {
				return err
			}
			return seeders.SeedTickets(cmd.Context(), pool, ids[0])
		},
	}

	all := &cobra.Command{
		Use:   "all",
		Short: "Миграции, сотрудники и тикеты",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			if err := migrations.Up(cfg.Postgres.DSN); err != nil {
				return err
			}
			return tickets.RunE(cmd, args)
		},
	}

	cmd.AddCommand(admins, tickets, all)
	return cmd
}

func newImportAssetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-assets <file.xlsx>",
		Short: "Импортировать активы из XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, cfg, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("ошибка открытия файла: %w", err)
			}
			defer f.Close()

			logger := applogger.NewLogger(cfg.Log.Level, "")
			importer := services.NewAssetImporter(
				repositories.NewAssetRepository(pool, logger),
				repositories.NewClientRepository(pool, logger),
				logger,
			)
			res, err := importer.Import(cmd.Context(), f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Новых записей:     %d\n", res.Created)
			fmt.Fprintf(out, "Обновлено записей: %d\n", res.Updated)
			fmt.Fprintf(out, "Пропущено строк:   %d\n", res.Skipped)
			fmt.Fprintf(out, "Ошибок:            %d\n", len(res.Errors))
			for _, e := range res.Errors {
				fmt.Fprintln(out, "  ", e)
			}
			return nil
		},
	}
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <plain>",
		Short: "Вывести bcrypt-хэш пароля",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
