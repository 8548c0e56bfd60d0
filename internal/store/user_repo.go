package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/ecoquest/internal/account"
)

type userRepo struct {
	db *sql.DB
}

func (r *userRepo) CreateUser(ctx context.Context, u account.User) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		q, args := builder().Select(entsql.Count("*")).
			From(entsql.Table("users")).
			Where(entsql.EQ("email", u.Email)).
			Query()
		var n int
		if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if n > 0 {
			return account.ErrEmailTaken
		}

		q, args = builder().Insert("users").
			Columns("id", "email", "name", "password_hash", "created_at").
			Values(u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt).
			Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func (r *userRepo) UserByEmail(ctx context.Context, email string) (account.User, error) {
	q, args := builder().Select("id", "email", "name", "password_hash", "created_at").
		From(entsql.Table("users")).
		Where(entsql.EQ("email", email)).
		Query()
	var u account.User
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return account.User{}, account.ErrUserNotFound
	}
	if err != nil {
		return account.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}
