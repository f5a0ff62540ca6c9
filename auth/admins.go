// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/newsdesk/db"
)

// Admin is an account allowed to manage portal content.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	GoogleLinked bool      `json:"google_linked"`
	CreatedAt    time.Time `json:"created_at"`
}

// Admins stores admin accounts in the admin table.
type Admins struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewAdmins(conn *sql.DB, dialect db.Dialect) *Admins {
	return &Admins{db: conn, dialect: dialect}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Create adds an admin account.
func (a *Admins) Create(ctx context.Context, email, password, displayName string) (Admin, error) {
	email = normalizeEmail(email)
	if email == "" {
		return Admin{}, errors.New("email is required")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return Admin{}, err
	}

	if _, err := a.FindByEmail(ctx, email); err == nil {
		return Admin{}, fmt.Errorf("%s: %w", email, ErrAdminExists)
	} else if !errors.Is(err, ErrAdminNotFound) {
		return Admin{}, err
	}

	admin := Admin{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   time.Now().UTC(),
	}
	_, err = a.db.ExecContext(ctx, a.dialect.Rebind(`
		INSERT INTO admin (id, email, password_hash, display_name, google_linked, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), admin.ID, admin.Email, hash, admin.DisplayName, false, admin.CreatedAt)
	if err != nil {
		return Admin{}, fmt.Errorf("insert admin: %w", err)
	}
	return admin, nil
}

const adminColumns = `id, email, display_name, google_linked, created_at`

func scanAdmin(row *sql.Row) (Admin, string, error) {
	var admin Admin
	var hash string
	err := row.Scan(&admin.ID, &admin.Email, &admin.DisplayName, &admin.GoogleLinked, &admin.CreatedAt, &hash)
	if err == sql.ErrNoRows {
		return Admin{}, "", ErrAdminNotFound
	}
	if err != nil {
		return Admin{}, "", fmt.Errorf("query admin: %w", err)
	}
	return admin, hash, nil
}

func (a *Admins) Get(ctx context.Context, id string) (Admin, error) {
	admin, _, err := scanAdmin(a.db.QueryRowContext(ctx, a.dialect.Rebind(
		`SELECT `+adminColumns+`, password_hash FROM admin WHERE id = ?`), id))
	return admin, err
}

func (a *Admins) FindByEmail(ctx context.Context, email string) (Admin, error) {
	admin, _, err := scanAdmin(a.db.QueryRowContext(ctx, a.dialect.Rebind(
		`SELECT `+adminColumns+`, password_hash FROM admin WHERE email = ?`), normalizeEmail(email)))
	return admin, err
}

// Authenticate checks an email and password. Unknown emails and wrong
// passwords fail the same way.
func (a *Admins) Authenticate(ctx context.Context, email, password string) (Admin, error) {
	admin, hash, err := scanAdmin(a.db.QueryRowContext(ctx, a.dialect.Rebind(
		`SELECT `+adminColumns+`, password_hash FROM admin WHERE email = ?`), normalizeEmail(email)))
	if errors.Is(err, ErrAdminNotFound) {
		return Admin{}, ErrInvalidCredentials
	}
	if err != nil {
		return Admin{}, err
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Admin{}, ErrInvalidCredentials
	}
	return admin, nil
}

// ChangePassword replaces the password after verifying the current one.
func (a *Admins) ChangePassword(ctx context.Context, id, current, next string) error {
	admin, err := a.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := a.Authenticate(ctx, admin.Email, current); err != nil {
		return err
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	_, err = a.db.ExecContext(ctx, a.dialect.Rebind(
		`UPDATE admin SET password_hash = ? WHERE id = ?`), hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// MarkGoogleLinked records that the admin has signed in with Google.
func (a *Admins) MarkGoogleLinked(ctx context.Context, id string) error {
	_, err := a.db.ExecContext(ctx, a.dialect.Rebind(
		`UPDATE admin SET google_linked = ? WHERE id = ?`), true, id)
	if err != nil {
		return fmt.Errorf("link google account: %w", err)
	}
	return nil
}
