package cmd

import (
	"context"

	"github.com/kasuboski/ratez/pkg/logger"
	"github.com/kasuboski/ratez/server"
	"go.uber.org/zap"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the catalog over http",
	Long:  `serve the catalog over http`,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.Get()
		ctx := logger.WithCtx(context.Background(), log)

		s, err := openCatalog(ctx, cmd.ErrOrStderr())
		if err != nil {
			log.Fatalw("failed to open catalog", zap.Error(err))
		}

		srv := server.New(log, s.store, newResolver(s.cfg.Poster))
		if err := srv.Serve(s.cfg.Server.Port); err != nil {
			log.Errorw("server shutdown failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
