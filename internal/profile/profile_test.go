package profile

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testToday = Date{Year: 2024, Month: time.March, Day: 10}
	testNow   = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
)

func TestNewSeedsSignupProfile(t *testing.T) {
	p := New("u1", "Ada", "ada@example.com", testToday, testNow)

	assert.Equal(t, 0, p.EcoPoints)
	assert.Equal(t, DefaultMaxPoints, p.MaxPoints)
	assert.Equal(t, 1, p.Streak)
	assert.Equal(t, testToday, p.LastLoginDate)
	assert.Empty(t, p.Achievements)
	assert.True(t, p.HasEntry("e-waste", 1))
	assert.True(t, p.HasEntry("temperature-change", 1))
	assert.False(t, p.HasEntry("e-waste", 2))
	assert.Len(t, p.Levels, 2)
}

func TestCloneIsDeep(t *testing.T) {
	p := New("u1", "Ada", "ada@example.com", testToday, testNow)
	p.Achievements = append(p.Achievements, EarnedAchievement{ID: "first-lesson"})
	p.LegacyLevels = map[int]string{1: LegacyCompleted}

	c := p.Clone()
	c.SetCounters("e-waste", 1, LevelCounters{LessonsCompleted: 3})
	c.Achievements[0].ID = "changed"
	c.LegacyLevels[1] = LegacyLocked

	assert.Equal(t, 0, p.Counters("e-waste", 1).LessonsCompleted)
	assert.Equal(t, "first-lesson", p.Achievements[0].ID)
	assert.Equal(t, LegacyCompleted, p.LegacyLevels[1])
}

func TestDocumentRoundTrip(t *testing.T) {
	p := New("u1", "Ada", "ada@example.com", testToday, testNow)
	p.EcoPoints = 12
	p.SetCounters("e-waste", 1, LevelCounters{LessonsCompleted: 5, CorrectAnswers: 4})
	p.SetCounters("e-waste", 2, LevelCounters{})
	p.Achievements = []EarnedAchievement{{ID: "first-lesson", Name: "First Steps", EarnedAt: testNow}}
	p.Version = 7

	d := ToDocument(p)
	assert.Equal(t, 5, d.TopicProgress["e-waste"]["1"])
	assert.Equal(t, 4, d.TopicCorrectAnswers["e-waste"]["1"])
	assert.Equal(t, 0, d.TopicProgress["e-waste"]["2"])
	require.Len(t, d.Achievements, 1)
	assert.True(t, d.Achievements[0].Earned)

	got, err := FromDocument(d)
	require.NoError(t, err)
	assert.Equal(t, p.Levels, got.Levels)
	assert.Equal(t, p.Achievements, got.Achievements)
	assert.Equal(t, p.LastLoginDate, got.LastLoginDate)
	assert.Equal(t, int64(7), got.Version)
}

func TestFromDocumentSanitizes(t *testing.T) {
	d := Document{
		UserID:    "u1",
		EcoPoints: -4,
		TopicProgress: map[string]map[string]int{
			"e-waste": {"1": 9, "2": 2},
		},
		TopicCorrectAnswers: map[string]map[string]int{
			"e-waste": {"1": 7, "2": 5},
		},
		Achievements: []AchievementDocument{
			{ID: "first-lesson"}, {ID: "first-lesson"}, {ID: ""},
		},
	}
	p, err := FromDocument(d)
	require.NoError(t, err)

	assert.Equal(t, 0, p.EcoPoints)
	assert.Equal(t, DefaultMaxPoints, p.MaxPoints)
	assert.Equal(t, LevelCounters{LessonsCompleted: 5, CorrectAnswers: 5}, p.Counters("e-waste", 1))
	assert.Equal(t, LevelCounters{LessonsCompleted: 2, CorrectAnswers: 2}, p.Counters("e-waste", 2))
	assert.Len(t, p.Achievements, 1)
}

func TestFromDocumentDropsOutOfRangeLevels(t *testing.T) {
	progress := map[string]int{"0": 5, "11": 5, "-3": 5}
	correct := map[string]int{"0": 5, "11": 5}
	for n := 2; n <= 10; n++ {
		progress[strconv.Itoa(n)] = 5
	}
	p, err := FromDocument(Document{
		UserID:              "u1",
		TopicProgress:       map[string]map[string]int{"e-waste": progress},
		TopicCorrectAnswers: map[string]map[string]int{"e-waste": correct},
	})
	require.NoError(t, err)

	assert.Len(t, p.Levels, 9)
	for _, n := range []int{0, 11, -3} {
		assert.False(t, p.HasEntry("e-waste", n), "level %d", n)
	}
	assert.False(t, p.HasEntry("e-waste", 1))
	assert.Equal(t, LevelCounters{LessonsCompleted: 5}, p.Counters("e-waste", 10))

	d := ToDocument(p)
	assert.NotContains(t, d.TopicProgress["e-waste"], "11")
	assert.NotContains(t, d.TopicCorrectAnswers["e-waste"], "0")
}

func TestFromDocumentRejectsBadLevelKey(t *testing.T) {
	_, err := FromDocument(Document{TopicProgress: map[string]map[string]int{"e-waste": {"one": 1}}})
	assert.Error(t, err)
}

func TestMemoryRepoVersioning(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	p := New("u1", "Ada", "ada@example.com", testToday, testNow)
	require.NoError(t, repo.Create(ctx, p))
	assert.ErrorIs(t, repo.Create(ctx, p), ErrProfileExists)

	a, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	b, err := repo.Load(ctx, "u1")
	require.NoError(t, err)

	a.EcoPoints = 2
	require.NoError(t, repo.Save(ctx, a))
	assert.Equal(t, int64(2), a.Version)

	b.EcoPoints = 1
	assert.ErrorIs(t, repo.Save(ctx, b), ErrVersionConflict)

	_, err = repo.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestUpdateConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	require.NoError(t, repo.Create(ctx, New("u1", "Ada", "", testToday, testNow)))

	const workers = 4
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Update(ctx, repo, "u1", func(p *Profile) error {
				p.EcoPoints++
				return nil
			})
			// Heavy contention may exhaust retries; a lost write is the failure mode.
			if err != nil && !errors.Is(err, ErrConflictRetriesExhausted) {
				t.Errorf("Update: %v", err)
			}
		}()
	}
	wg.Wait()

	p, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(p.Version-1), int64(p.EcoPoints), "every saved update must be counted")
}

type conflictRepo struct {
	*MemoryRepo
	failures int
}

func (r *conflictRepo) Save(ctx context.Context, p *Profile) error {
	if r.failures > 0 {
		r.failures--
		return ErrVersionConflict
	}
	return r.MemoryRepo.Save(ctx, p)
}

func TestUpdateRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	repo := &conflictRepo{MemoryRepo: NewMemoryRepo(), failures: 2}
	require.NoError(t, repo.Create(ctx, New("u1", "Ada", "", testToday, testNow)))

	calls := 0
	p, err := Update(ctx, repo, "u1", func(p *Profile) error {
		calls++
		p.EcoPoints += 2
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, p.EcoPoints)
}

func TestUpdateExhaustsRetries(t *testing.T) {
	ctx := context.Background()
	repo := &conflictRepo{MemoryRepo: NewMemoryRepo(), failures: DefaultUpdateAttempts}
	require.NoError(t, repo.Create(ctx, New("u1", "Ada", "", testToday, testNow)))

	_, err := Update(ctx, repo, "u1", func(p *Profile) error { return nil })
	assert.ErrorIs(t, err, ErrConflictRetriesExhausted)
}

func TestUpdateNoChangesSkipsSave(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	require.NoError(t, repo.Create(ctx, New("u1", "Ada", "", testToday, testNow)))

	p, err := Update(ctx, repo, "u1", func(p *Profile) error { return ErrNoChanges })
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Version)
}

type brokenRepo struct{ *MemoryRepo }

func (brokenRepo) Load(context.Context, string) (*Profile, error) {
	return nil, errors.New("disk on fire")
}

func TestUpdateWrapsStoreFailures(t *testing.T) {
	_, err := Update(context.Background(), brokenRepo{NewMemoryRepo()}, "u1", func(p *Profile) error { return nil })
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "load profile", pe.Op)
}

func TestUpdateMissingProfile(t *testing.T) {
	_, err := Update(context.Background(), NewMemoryRepo(), "nobody", func(p *Profile) error { return nil })
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestMigrateLegacy(t *testing.T) {
	p := New("u1", "Ada", "", testToday, testNow)
	p.SetCounters("e-waste", 3, LevelCounters{LessonsCompleted: 2, CorrectAnswers: 1})
	p.LegacyLevels = map[int]string{
		1:  LegacyCompleted,
		2:  LegacyUnlocked,
		3:  LegacyUnlocked,
		4:  LegacyLocked,
		42: LegacyCompleted,
	}

	n, changed := MigrateLegacy(p, "e-waste")
	assert.True(t, changed)
	assert.Equal(t, 2, n)
	assert.Nil(t, p.LegacyLevels)
	assert.Equal(t, LevelCounters{LessonsCompleted: 5}, p.Counters("e-waste", 1))
	assert.True(t, p.HasEntry("e-waste", 2))
	assert.Equal(t, LevelCounters{LessonsCompleted: 2, CorrectAnswers: 1}, p.Counters("e-waste", 3))
	assert.False(t, p.HasEntry("e-waste", 4))

	n, changed = MigrateLegacy(p, "e-waste")
	assert.False(t, changed)
	assert.Zero(t, n)
}
