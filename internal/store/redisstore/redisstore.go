// Package redisstore keeps user documents, accounts and event streams in Redis.
// Profiles are stored as the JSON user document and saved with WATCH/MULTI
// so that a concurrent writer turns into a version conflict.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/ecoquest/internal/account"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/store"
)

// Store is the Redis backend.
type Store struct {
	client *redis.Client
	prefix string
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, opts *redis.Options, prefix string) (*Store, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return New(client, prefix), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Client returns the underlying client, shared with the login rate limiter.
func (s *Store) Client() *redis.Client {
	return s.client
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) ProfileRepo() profile.Repo {
	return &profileRepo{s: s}
}

func (s *Store) UserRepo() account.UserRepo {
	return &userRepo{s: s}
}

func (s *Store) EventRepo() store.EventRepo {
	return &eventRepo{s: s}
}

func (s *Store) userDocKey(userID string) string { return s.prefix + "users:" + userID }
func (s *Store) accountKey(email string) string  { return s.prefix + "accounts:" + email }
func (s *Store) lessonStream(userID string) string {
	return s.prefix + "events:lessons:" + userID
}
func (s *Store) llmStream() string   { return s.prefix + "events:llm" }
func (s *Store) sequenceKey() string { return s.prefix + "sequence" }

type profileRepo struct {
	s *Store
}

func (r *profileRepo) Create(ctx context.Context, p *profile.Profile) error {
	doc := profile.ToDocument(p)
	doc.Version = 1
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	ok, err := r.s.client.SetNX(ctx, r.s.userDocKey(p.UserID), b, 0).Result()
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	if !ok {
		return profile.ErrProfileExists
	}
	p.Version = 1
	return nil
}

func (r *profileRepo) Load(ctx context.Context, userID string) (*profile.Profile, error) {
	b, err := r.s.client.Get(ctx, r.s.userDocKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, profile.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return decodeProfile(b)
}

func (r *profileRepo) Save(ctx context.Context, p *profile.Profile) error {
	key := r.s.userDocKey(p.UserID)
	err := r.s.client.Watch(ctx, func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return profile.ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		var cur profile.Document
		if err := json.Unmarshal(b, &cur); err != nil {
			return fmt.Errorf("decode profile: %w", err)
		}
		if cur.Version != p.Version {
			return profile.ErrVersionConflict
		}

		doc := profile.ToDocument(p)
		doc.Version = p.Version + 1
		next, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return profile.ErrVersionConflict
	}
	if err != nil {
		return err
	}
	p.Version++
	return nil
}

func decodeProfile(b []byte) (*profile.Profile, error) {
	var doc profile.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return profile.FromDocument(doc)
}

type userRepo struct {
	s *Store
}

func (r *userRepo) CreateUser(ctx context.Context, u account.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	ok, err := r.s.client.SetNX(ctx, r.s.accountKey(u.Email), b, 0).Result()
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if !ok {
		return account.ErrEmailTaken
	}
	return nil
}

func (r *userRepo) UserByEmail(ctx context.Context, email string) (account.User, error) {
	b, err := r.s.client.Get(ctx, r.s.accountKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return account.User{}, account.ErrUserNotFound
	}
	if err != nil {
		return account.User{}, fmt.Errorf("get user: %w", err)
	}
	var u account.User
	if err := json.Unmarshal(b, &u); err != nil {
		return account.User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}
