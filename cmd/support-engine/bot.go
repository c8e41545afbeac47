package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/support-engine/internal/bot"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram support bot",
	Long: `Bot starts the Telegram front end: free-text messages are matched against
the knowledge base and answered with the best solution, including attached
photos and videos. The knowledge base refreshes periodically while the bot
is running; /reload forces a refresh.

The bot token is read from --token, the SUPPORT_ENGINE_BOT_TOKEN environment
variable, bot.token in the config file, or .secrets/telegram-bot-token.`,
	RunE: runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := currentConfig()
	token, err := botToken(cmd, cfg)
	if err != nil {
		return err
	}

	store, cleanup := newStore(cfg, log)
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The bot starts even when the initial load fails; /reload or the
	// periodic refresh can recover once the sheet is reachable again.
	if err := store.LoadInitial(ctx); err != nil {
		log.Warn("initial load failed, starting with an empty knowledge base", zap.Error(err))
	} else {
		log.Info("knowledge base loaded", zap.Int("records", store.Len()))
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("connecting to telegram: %w", err)
	}
	log.Info("authorized", zap.String("account", api.Self.UserName))

	runCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.Run(runCtx)
	}()
	defer wg.Wait()
	defer cancel()

	return bot.New(api, store, cfg, log).Run(runCtx)
}

func init() {
	botCmd.Flags().String("token", "", "telegram bot token (overrides config and secrets)")

	rootCmd.AddCommand(botCmd)
}
