package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/sovbot/internal/bot"
	"github.com/abhisek/sovbot/internal/commentary"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram webhook bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	if err := cfg.ValidateTelegram(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	repo := st.EventRepo()

	engine, expiries, err := newEngine(repo, logger.Named("engine"))
	if err != nil {
		return err
	}

	api, err := bot.Connect(cfg.Telegram.Token, cfg.Telegram.APIEndpoint)
	if err != nil {
		return err
	}
	logger.Info("connected to telegram", zap.String("bot", api.Self.UserName))

	svc := commentary.NewService(newProvider(ctx, repo), cfg.CommentaryConfig(), logger.Named("commentary"))
	b := bot.New(engine, bot.NewTelegramSender(api), svc, logger.Named("bot"))

	tg := cfg.Telegram
	if tg.WebhookURL == "" || tg.WebhookSecret == "" {
		logger.Error("WEBHOOK_URL or WEBHOOK_SECRET is not set; webhook not registered")
	} else if url, err := bot.SetWebhook(api, tg.WebhookURL, tg.WebhookSecret); err != nil {
		logger.Error("register webhook", zap.Error(err))
	} else {
		logger.Info("webhook registered", zap.String("url", url))
	}

	server := bot.NewServer(tg.Listen, tg.WebhookSecret, b, logger.Named("webhook"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error { return expiries.Run(gctx) })
	if svc.Enabled() {
		g.Go(func() error { return svc.Run(gctx) })
	}
	err = g.Wait()

	if tg.DeleteWebhook {
		if derr := bot.DeleteWebhook(api); derr != nil {
			logger.Warn("delete webhook", zap.Error(derr))
		}
	}
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("stopped")
	return nil
}
