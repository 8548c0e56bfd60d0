// Package account manages local user accounts and issues sessions.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/ecoquest/internal/auth"
	"github.com/abhisek/ecoquest/internal/logger"
	"github.com/abhisek/ecoquest/internal/profile"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidEmail = errors.New("invalid email address")
)

// User is a local account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepo persists accounts. Emails are unique.
type UserRepo interface {
	CreateUser(ctx context.Context, u User) error
	UserByEmail(ctx context.Context, email string) (User, error)
}

// Session is the result of a signup or login.
type Session struct {
	UserID    string
	Name      string
	Token     string
	ExpiresAt time.Time
}

type Service struct {
	users    UserRepo
	profiles profile.Repo
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenManager
	log      *logger.Logger
	now      func() time.Time

	// dummyHash is compared against when the email is unknown, so both
	// failure paths cost one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash string
}

func NewService(users UserRepo, profiles profile.Repo, hasher *auth.PasswordHasher, tokens *auth.TokenManager, log *logger.Logger) *Service {
	return &Service{
		users:    users,
		profiles: profiles,
		hasher:   hasher,
		tokens:   tokens,
		log:      log,
		now:      time.Now,
	}
}

// Signup creates the account and its starting profile, then issues a session.
func (s *Service) Signup(ctx context.Context, email, password, name string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, err
		}
		return nil, profile.Persistence("create user", err)
	}

	if err := s.profiles.Create(ctx, profile.New(u.ID, u.Name, u.Email, profile.DateOf(now), now)); err != nil {
		s.log.Error("create profile after signup", "user_id", u.ID, "error", err)
		return nil, profile.Persistence("create profile", err)
	}
	s.log.Info("user signed up", "user_id", u.ID, "email", u.Email)

	return s.session(u)
}

func (s *Service) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.log.Warn("build dummy password hash", "error", err)
			return
		}
		s.dummyHash = h
	})
	if s.dummyHash != "" {
		_ = s.hasher.Compare(s.dummyHash, password)
	}
}

// Authenticate checks the credentials and issues a session. A missing
// profile, left behind by an interrupted signup, is recreated.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	u, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.compareDummy(password)
			return nil, auth.ErrInvalidCredentials
		}
		return nil, profile.Persistence("load user", err)
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		s.log.Warn("failed login", "user_id", u.ID)
		return nil, err
	}

	if _, err := s.profiles.Load(ctx, u.ID); errors.Is(err, profile.ErrProfileNotFound) {
		now := s.now()
		if err := s.profiles.Create(ctx, profile.New(u.ID, u.Name, u.Email, profile.Date{}, now)); err != nil && !errors.Is(err, profile.ErrProfileExists) {
			return nil, profile.Persistence("recreate profile", err)
		}
		s.log.Warn("recreated missing profile", "user_id", u.ID)
	} else if err != nil {
		return nil, profile.Persistence("load profile", err)
	}

	return s.session(u)
}

func (s *Service) session(u User) (*Session, error) {
	tok, exp, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: u.ID, Name: u.Name, Token: tok, ExpiresAt: exp}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return email, nil
}

// MemoryUserRepo is an in-process UserRepo.
type MemoryUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{byEmail: make(map[string]User)}
}

func (r *MemoryUserRepo) CreateUser(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	r.byEmail[u.Email] = u
	return nil
}

func (r *MemoryUserRepo) UserByEmail(_ context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}
