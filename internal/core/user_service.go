package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// UserService implements the deliberately lightweight account model of a
// counter-top POS: admin accounts are password-protected, operator accounts
// are passwordless and auto-created on first login, and guests get throwaway
// accounts.
type UserService interface {
	// Login resolves a username to a user, enforcing the password only for
	// accounts that have one. An unknown username is auto-created as a
	// passwordless operator account.
	Login(ctx context.Context, username, password string) (*User, error)
	// CreateGuest creates a throwaway passwordless account with a generated
	// guest-<unix>-<hex> username.
	CreateGuest(ctx context.Context) (*User, error)
	CreateUser(ctx context.Context, username, password, role string) (*User, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

type userService struct {
	pool *pgxpool.Pool
}

func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

func (s *userService) Login(ctx context.Context, username, password string) (*User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		// First login of an unknown operator: create the account on the fly.
		return s.CreateUser(ctx, username, "", RoleUser)
	}

	if user.PasswordHash == "" {
		return user, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("login for %q: %w", username, ErrInvalidCredentials)
	}
	return user, nil
}

func (s *userService) CreateGuest(ctx context.Context) (*User, error) {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return nil, fmt.Errorf("failed to generate guest suffix: %w", err)
	}
	username := fmt.Sprintf("guest-%d-%s", time.Now().Unix(), hex.EncodeToString(suffix))
	return s.CreateUser(ctx, username, "", RoleUser)
}

func (s *userService) CreateUser(ctx context.Context, username, password, role string) (*User, error) {
	if role == "" {
		role = RoleUser
	}

	hash := ""
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(hashed)
	}

	var u User
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, password_hash, role, created_at
	`, username, hash, role, time.Now().UTC()).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %q: %w", username, err)
	}
	return &u, nil
}

func (s *userService) GetByID(ctx context.Context, userID int) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		"SELECT id, username, password_hash, role, created_at FROM users WHERE id = $1",
		userID,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d not found: %w", userID, err)
		}
		return nil, fmt.Errorf("failed to fetch user %d: %w", userID, err)
	}
	return &u, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		"SELECT id, username, password_hash, role, created_at FROM users WHERE username = $1",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q not found: %w", username, err)
		}
		return nil, fmt.Errorf("failed to fetch user %q: %w", username, err)
	}
	return &u, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, username, password_hash, role, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, nil
}
