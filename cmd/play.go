package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/sovbot/internal/app"
	"github.com/abhisek/sovbot/internal/commentary"
	"github.com/abhisek/sovbot/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Take the questionnaire in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		repo := st.EventRepo()

		// Log output would tear the alternate screen.
		engine, expiries, err := newEngine(repo, zap.NewNop())
		if err != nil {
			return err
		}

		user, _ := cmd.Flags().GetInt64("user")
		opts := app.Options{
			Engine: engine,
			UserID: session.UserID(user),
		}
		if provider := newProvider(ctx, repo); provider != nil {
			cc := cfg.CommentaryConfig()
			opts.Commentator = commentary.NewGenerator(provider, cc.Generator)
			opts.CommentaryTimeout = cc.Timeout
		}

		// The player's exit stops the expiry recorder, which flushes on the way out.
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		g, gctx := errgroup.WithContext(runCtx)
		g.Go(func() error { return expiries.Run(gctx) })
		g.Go(func() error {
			defer cancel()
			return app.Run(gctx, opts)
		})
		return g.Wait()
	},
}

func init() {
	playCmd.Flags().Int64("user", 1, "User ID to record local sessions under")
}
