// Package user manages the accounts that can obtain a session token from
// internal/httpapi's login endpoint, storing bcrypt password hashes the
// way the teacher's (incomplete, in the retrieved pack) user package does.
// Unlike the teacher, there is no Role field: this domain has no
// admin/user distinction, only an authenticated caller or none.
package user

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// User is the gorm model for a registered account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository persists and authenticates Users. Construct with Open*; it
// owns its *gorm.DB rather than relying on a package-level global.
type Repository struct {
	db *gorm.DB
}

// OpenPostgres opens a Repository against a Postgres DSN.
func OpenPostgres(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("user: open postgres: %w", err)
	}
	return open(db)
}

// OpenSQLite opens a Repository against a SQLite file (or ":memory:").
func OpenSQLite(path string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("user: open sqlite: %w", err)
	}
	return open(db)
}

func open(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("user: migrate: %w", err)
	}
	return &Repository{db: db}, nil
}

// HashPassword bcrypt-hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("user: hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash, returning nil on a
// match and bcrypt's mismatch error otherwise.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Create registers a new account, hashing password before storing it.
func (r *Repository) Create(ctx context.Context, username, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{Username: username, PasswordHash: hash}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("user: create %q: %w", username, err)
	}
	return u, nil
}

// ByUsername looks up an account by its unique username.
func (r *Repository) ByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, fmt.Errorf("user: lookup %q: %w", username, err)
	}
	return &u, nil
}
