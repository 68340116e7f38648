package main

import (
	"fmt"
	"os"

	"github.com/DRSN-tech/storefront/internal/app"
	config "github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/spf13/cobra"
)

var log logger.Logger

// rootCmd без подкоманды запускает сервис.
var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Storefront catalog service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP and gRPC servers with the outbox worker",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(true, 0)
	},
}

var migrateSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateSteps <= 0 {
			return fmt.Errorf("--steps must be positive, got %d", migrateSteps)
		}
		return runMigrate(false, migrateSteps)
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

//	@title			Storefront API
//	@version		1.0
//	@description	Каталог магазина: товары, категории, настройки и заказы через WhatsApp.
//	@BasePath		/api/v1
func main() {
	logCfg := config.LoadLogCfg()
	log = logger.NewZapLogger(logger.Options{
		Level:             logCfg.Level,
		Encoding:          logCfg.Encoding,
		DisableCaller:     logCfg.DisableCaller,
		DisableStacktrace: logCfg.DisableStacktrace,
	})
	defer log.Sync()

	if err := rootCmd.Execute(); err != nil {
		log.Errorf(err, "storefront exited with error")
		log.Sync()
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		return err
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		return err
	}

	return application.Run()
}

func runMigrate(up bool, steps int) error {
	dbCfg, err := config.LoadDB(log)
	if err != nil {
		log.Errorf(err, "failed to load database config")
		return err
	}

	return app.Migrate(dbCfg, log, up, steps)
}
