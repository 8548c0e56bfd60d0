package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/abhisek/ecoquest/internal/account"
	"github.com/abhisek/ecoquest/internal/achievements"
	"github.com/abhisek/ecoquest/internal/auth"
	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/config"
	"github.com/abhisek/ecoquest/internal/logger"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/store"
	"github.com/abhisek/ecoquest/internal/store/redisstore"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// backend bundles the repositories of one storage backend.
type backend struct {
	Profiles profile.Repo
	Users    account.UserRepo

	// Events is nil for the memory backend.
	Events store.EventRepo

	// Snapshots is only available on SQLite.
	Snapshots store.SnapshotRepo

	// Redis is set for the redis backend.
	Redis *redis.Client

	close func() error
}

func (b *backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		rs, err := redisstore.Open(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return &backend{
			Profiles: rs.ProfileRepo(),
			Users:    rs.UserRepo(),
			Events:   rs.EventRepo(),
			Redis:    rs.Client(),
			close:    rs.Close,
		}, nil

	case config.BackendMemory:
		return &backend{
			Profiles: profile.NewMemoryRepo(),
			Users:    account.NewMemoryUserRepo(),
		}, nil

	default:
		dbPath := cfg.DB
		if dbPath == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
			dbPath = p
		} else if err := store.EnsureDir(dbPath); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return &backend{
			Profiles:  st.ProfileRepo(),
			Users:     st.UserRepo(),
			Events:    st.EventRepo(),
			Snapshots: st.SnapshotRepo(),
			close:     st.Close,
		}, nil
	}
}

// runtime is everything a command needs after configuration is resolved.
type runtime struct {
	cfg     config.Config
	dataDir string
	log     *logger.Logger
	backend *backend

	tokens   *auth.TokenManager
	engine   *achievements.Engine
	accounts *account.Service
	progress *completion.Service
}

// logTarget picks where a command's logs go.
type logTarget int

const (
	// logToFile keeps the terminal clean: log.file, else ecoquest.log in
	// the data directory.
	logToFile logTarget = iota
	// logToStderr is for long-running servers.
	logToStderr
)

func setup(cmd *cobra.Command, target logTarget) (*runtime, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{File: configFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}

	out := cfg.Log.File
	if out == "" && target == logToFile {
		out = filepath.Join(dataDir, "ecoquest.log")
	}
	log, err := logger.New(cfg.Log.Mode, logger.Options{
		Redact:     cfg.Log.Redact,
		HashSalt:   cfg.Log.HashSalt,
		OutputPath: out,
	})
	if err != nil {
		return nil, err
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		secret, err = auth.LoadOrCreateSecret(filepath.Join(dataDir, "secret"))
		if err != nil {
			return nil, err
		}
	}

	b, err := openBackend(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:     cfg,
		dataDir: dataDir,
		log:     log,
		backend: b,
		tokens:  auth.NewTokenManager(secret, cfg.Auth.TokenTTL),
		engine:  achievements.NewEngine(),
	}
	rt.accounts = account.NewService(b.Users, b.Profiles, auth.NewPasswordHasher(), rt.tokens, log)
	rt.progress = completion.NewService(b.Profiles, b.Events, rt.engine, log)

	log.Debug("runtime ready", "backend", cfg.Backend, "command", cmd.Name())
	if cfg.Backend == config.BackendMemory && cmd.Name() != "serve" {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: the memory backend forgets everything when this command exits")
	}
	return rt, nil
}

func (rt *runtime) Close() {
	if err := rt.backend.Close(); err != nil {
		rt.log.Warn("close backend", "error", err)
	}
	rt.log.Sync()
}
