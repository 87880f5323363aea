package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/NoBugNinja/Skill-Sync/internal/logger"
	"github.com/NoBugNinja/Skill-Sync/internal/screening"
	"github.com/NoBugNinja/Skill-Sync/internal/secrets"
	"github.com/NoBugNinja/Skill-Sync/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyze and screen endpoints over HTTP",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (default :3000)")
	serveCmd.Flags().String("api-key-file", "", "file with the bearer key required by the endpoints. Default is unset.")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.api-key-file", serveCmd.Flags().Lookup("api-key-file"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), zap.String("command", "serve"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the skill-sync server", zap.String("version", version))

	apiKey, err := secrets.LoadOptional(secrets.Source{
		Name: "api key",
		File: config.Server.APIKeyFile,
		Env:  envPrefix + "_API_KEY",
	})
	if err != nil {
		logger.Fatal("loading api key", zap.Error(err))
	}

	if apiKey == "" {
		logger.Warn("serving without authentication",
			zap.String("hint", "set SKILL_SYNC_API_KEY environment variable or the 'server.api-key-file' key in the configuration file"),
		)
	}

	a, err := newAnalyzer(config, logger)
	if err != nil {
		logger.Fatal("building analyzer", zap.Error(err))
	}

	srv := server.New(*config.Server, a, logger,
		server.WithAPIKey(apiKey),
		server.WithRunnerOptions(
			screening.WithConcurrency(config.Screening.Concurrency),
			screening.WithTopSkills(config.Screening.TopSkills),
		),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}
