package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/ecoquest/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, logToStderr)
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.cfg.Log.Mode == "prod" {
			gin.SetMode(gin.ReleaseMode)
		}

		var limiter server.Counter = server.NewMemoryCounter()
		if rt.backend.Redis != nil {
			limiter = server.NewRedisCounter(rt.backend.Redis, rt.cfg.Redis.KeyPrefix)
		}

		offline, _ := cmd.Flags().GetBool("offline")
		srv := server.New(server.Deps{
			Accounts:     rt.accounts,
			Progress:     rt.progress,
			Achievements: rt.engine,
			Tokens:       rt.tokens,
			Lessons:      rt.lessonSource(cmd, offline),
			Limiter:      limiter,
			Config:       rt.cfg.Server,
			Log:          rt.log,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, rt.cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().Bool("offline", false, "Serve built-in lesson material instead of calling an LLM")
}
