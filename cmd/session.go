package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abhisek/ecoquest/internal/account"
	"github.com/abhisek/ecoquest/internal/auth"
)

var errNotSignedIn = errors.New("not signed in; run `ecoquest login` or `ecoquest signup` first")

// savedSession is the signed-in user remembered between commands.
type savedSession struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (rt *runtime) sessionPath() string {
	return filepath.Join(rt.dataDir, "session.json")
}

func (rt *runtime) saveSession(s *account.Session) error {
	b, err := json.MarshalIndent(savedSession{
		UserID:    s.UserID,
		Name:      s.Name,
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(rt.sessionPath(), b, 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (rt *runtime) clearSession() error {
	err := os.Remove(rt.sessionPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// loadSession returns the saved session when its token is still valid.
func (rt *runtime) loadSession() (*savedSession, error) {
	b, err := os.ReadFile(rt.sessionPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errNotSignedIn
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s savedSession
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	userID, err := rt.tokens.Validate(s.Token)
	if err != nil || userID != s.UserID {
		rt.log.Info("saved session rejected", "error", err)
		return nil, errNotSignedIn
	}
	return &s, nil
}

// userContext attaches the signed-in user to ctx.
func (rt *runtime) userContext(ctx context.Context) (context.Context, *savedSession, error) {
	s, err := rt.loadSession()
	if err != nil {
		return nil, nil, err
	}
	return auth.WithUser(ctx, s.UserID), s, nil
}

// prompt reads one line from in after printing label, unless value is
// already set.
func prompt(in *bufio.Reader, out io.Writer, label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(out, "%s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}
