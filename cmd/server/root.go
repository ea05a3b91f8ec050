package main

import (
	"errors"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"org-directory-service/internal/infrastructure/config"
	"org-directory-service/internal/infrastructure/database"
	"org-directory-service/internal/infrastructure/logger"
)

const (
	envFileFlag = "env-file"
	modeFlag    = "mode"
)

// NewRootCommand 创建命令行入口：serve | migrate | seed | purge
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   serviceName,
		Short: "Directory of buildings, organizations and activities",
		Long: `Read-only HTTP directory of buildings, organizations and activities.

Available subcommands:
  serve    - Start the HTTP API
  migrate  - Apply the database schema (auto | drop | none)
  seed     - Insert the reference dataset into an empty database
  purge    - Delete every directory row`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newPurgeCommand())
	return rootCmd
}

func newEnvFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		envFileFlag: &cobraflags.StringFlag{
			Name:  envFileFlag,
			Value: "",
			Usage: "Path to a .env file; ./.env is used when empty",
		},
	}
}

// bootstrap 加载配置并创建日志
func bootstrap(flags map[string]cobraflags.Flag) (*config.Config, *zap.Logger, error) {
	var envFiles []string
	if f := flags[envFileFlag].GetString(); f != "" {
		envFiles = append(envFiles, f)
	}

	cfg, err := config.LoadConfig(envFiles...)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

// openDatabase 迁移和种子命令必须连接数据库
func openDatabase(cfg *config.Config, log *zap.Logger) (*database.ConnectionPool, error) {
	if !cfg.DBEnabled {
		return nil, errors.New("DB_ENABLED is false, this command needs a database")
	}
	return database.NewConnectionPool(cfg, log)
}
