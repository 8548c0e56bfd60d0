// Package server exposes the progress engine over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/ecoquest/internal/account"
	"github.com/abhisek/ecoquest/internal/achievements"
	"github.com/abhisek/ecoquest/internal/auth"
	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/config"
	"github.com/abhisek/ecoquest/internal/lessons"
	"github.com/abhisek/ecoquest/internal/logger"
)

// Deps are the services the API is built on. Lessons and Limiter may be nil.
type Deps struct {
	Accounts     *account.Service
	Progress     *completion.Service
	Achievements *achievements.Engine
	Tokens       *auth.TokenManager
	Lessons      lessons.LessonSource
	Limiter      Counter
	Config       config.ServerConfig
	Log          *logger.Logger
}

type Server struct {
	Deps
	log    *logger.Logger
	router *gin.Engine
	now    func() time.Time
}

// New builds the router. Call gin.SetMode before New to pick the gin mode.
func New(d Deps) *Server {
	s := &Server{Deps: d, log: d.Log, now: time.Now}
	if s.log == nil {
		s.log = logger.Nop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = d.Config.AllowedOrigins
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = []string{"http://localhost"}
	}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", s.signup)
			authGroup.POST("/login",
				rateLimit(d.Limiter, "login", d.Config.LoginRateLimit, d.Config.LoginRateWindow, s.log),
				s.login)
		}

		api.GET("/topics", s.listTopics)
		api.GET("/achievements/catalog", s.achievementCatalog)

		me := api.Group("")
		me.Use(requireAuth(d.Tokens))
		{
			me.GET("/me", s.me)
			me.POST("/me/checkin", s.checkin)
			me.GET("/me/stats", s.stats)
			me.GET("/me/achievements", s.gallery)
			me.GET("/me/topics/:topic", s.topicOverview)
			me.GET("/me/topics/:topic/levels/:level/lesson", s.lesson)
			me.POST("/me/topics/:topic/levels/:level/lessons", s.completeLesson)
		}
	}

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
