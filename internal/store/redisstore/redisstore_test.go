package redisstore

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ecoquest/internal/account"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/store"
)

// testStore connects to the server named by ECOQUEST_TEST_REDIS_ADDR and
// isolates each test under a random key prefix.
func testStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("ECOQUEST_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ECOQUEST_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, &redis.Options{Addr: addr}, "ecoquest-test:"+uuid.NewString()+":")
	require.NoError(t, err)

	t.Cleanup(func() {
		keys, _ := s.client.Keys(ctx, s.prefix+"*").Result()
		if len(keys) > 0 {
			s.client.Del(ctx, keys...)
		}
		s.Close()
	})
	return s
}

func newProfile(id string) *profile.Profile {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	return profile.New(id, "Ada", "ada@example.com", profile.DateOf(now), now)
}

func TestProfileRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	repo := s.ProfileRepo()

	p := newProfile("u1")
	require.NoError(t, repo.Create(ctx, p))
	assert.ErrorIs(t, repo.Create(ctx, newProfile("u1")), profile.ErrProfileExists)

	p.EcoPoints = 40
	p.SetCounters("e-waste", 1, profile.LevelCounters{LessonsCompleted: 3, CorrectAnswers: 2})
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 40, got.EcoPoints)
	assert.Equal(t, p.Version, got.Version)
	assert.Equal(t, 3, got.Counters("e-waste", 1).LessonsCompleted)

	_, err = repo.Load(ctx, "missing")
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestProfileStaleSave(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	repo := s.ProfileRepo()
	require.NoError(t, repo.Create(ctx, newProfile("u1")))

	a, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	b, err := repo.Load(ctx, "u1")
	require.NoError(t, err)

	a.EcoPoints = 5
	require.NoError(t, repo.Save(ctx, a))
	b.EcoPoints = 7
	assert.ErrorIs(t, repo.Save(ctx, b), profile.ErrVersionConflict)
}

func TestConcurrentUpdates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	repo := s.ProfileRepo()
	require.NoError(t, repo.Create(ctx, newProfile("u1")))

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := profile.Update(ctx, repo, "u1", func(p *profile.Profile) error {
				p.EcoPoints += 2
				return nil
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2*ok, got.EcoPoints)
}

func TestUsers(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	users := s.UserRepo()

	u := account.User{ID: "u1", Email: "ada@example.com", Name: "Ada", PasswordHash: "x"}
	require.NoError(t, users.CreateUser(ctx, u))
	assert.ErrorIs(t, users.CreateUser(ctx, u), account.ErrEmailTaken)

	got, err := users.UserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = users.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, account.ErrUserNotFound)
}

func TestEvents(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	events := s.EventRepo()

	for i := 1; i <= 3; i++ {
		require.NoError(t, events.AppendLessonEvent(ctx, store.LessonEventData{
			UserID: "u1", TopicID: "e-waste", Level: 1, Correct: true,
			LessonsCompleted: i, CorrectAnswers: i, PointsAwarded: 2,
		}))
	}
	got, err := events.RecentLessons(ctx, "u1", store.QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].LessonsCompleted)
	assert.True(t, got[0].Sequence > got[1].Sequence)

	require.NoError(t, events.AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: "gemini", Model: "m", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true,
	}))
	require.NoError(t, events.AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: "gemini", Model: "m", LatencyMs: 300, ErrorMessage: "boom",
	}))
	usage, err := events.LLMUsage(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 2, usage[0].Requests)
	assert.Equal(t, 1, usage[0].Failures)
	assert.Equal(t, int64(200), usage[0].AvgLatencyMs)
}
