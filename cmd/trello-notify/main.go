package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/marcin-skalski/trello-notify/internal/config"
	"github.com/marcin-skalski/trello-notify/internal/logging"
	"github.com/marcin-skalski/trello-notify/internal/notify"
	"github.com/marcin-skalski/trello-notify/internal/slack"
	"github.com/marcin-skalski/trello-notify/internal/trello"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "trello-notify",
		Short:         "Nags Slack users about stale Trello cards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "pending-reviews",
		Short: "Send messages for cards that are pending reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, n *notify.Notifier, cfg *config.Config) error {
				return n.PendingReviews(ctx, cfg.Trello.ReviewLists)
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "inactive-cards",
		Short: "Send notifications for inactive cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, n *notify.Notifier, cfg *config.Config) error {
				return n.InactiveCards(ctx, cfg.Trello.InactiveLists)
			})
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(action func(ctx context.Context, n *notify.Notifier, cfg *config.Config) error) error {
	// Tokens usually live in a .env file next to the binary.
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}

	logger, err := logging.SetupLogger(cfg.LogFile, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logger: %v\n", err)
		return err
	}
	defer logging.CloseFile()

	users := make(map[notify.TrelloUser]notify.SlackUser, len(cfg.Users))
	for trelloUser, slackUser := range cfg.Users {
		users[notify.TrelloUser(trelloUser)] = notify.SlackUser(slackUser)
	}

	board := trello.NewClient(cfg.Trello.Key, cfg.Trello.Token, logger)
	if cfg.DebugDir != "" {
		board = board.WithDebugDir(cfg.DebugDir)
	}
	poster := slack.NewClient(cfg.Slack.BotToken, logger)

	n := notify.New(board, poster, cfg.Trello.BoardIDs, users, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := action(ctx, n, cfg); err != nil {
		logger.Error("run failed", "err", err)
		return err
	}

	return nil
}
