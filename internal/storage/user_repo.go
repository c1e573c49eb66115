package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) CreateUser(ctx context.Context, u models.User) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO users (user_id, name, email, password_hash, role) VALUES ($1, $2, $3, $4, $5)`,
		u.UserID, u.Name, u.Email, u.PasswordHash, u.Role)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.db.Pool.QueryRow(ctx,
		`SELECT user_id::text, name, email, password_hash, role, last_login, created_at FROM users WHERE email = $1`,
		email).Scan(&u.UserID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.LastLogin, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE user_id = $1`, userID, at)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
