package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"carrental/internal/db"

	"golang.org/x/crypto/bcrypt"
)

var ErrAdminExists = errors.New("admin already exists")

// AdminAuthRepository looks up admin accounts. GetByUsername returns nil, nil
// when the account does not exist.
type AdminAuthRepository interface {
	GetByUsername(ctx context.Context, username string) (*db.Admin, error)
	CreateAdmin(ctx context.Context, username, password string) error
}

type adminAuthRepository struct {
	db *sql.DB
}

func NewAdminAuthRepository(conn *sql.DB) AdminAuthRepository {
	return &adminAuthRepository{db: conn}
}

func (r *adminAuthRepository) GetByUsername(ctx context.Context, username string) (*db.Admin, error) {
	var admin db.Admin
	err := r.db.QueryRowContext(ctx, "SELECT id, username, password_hash FROM admins WHERE username = $1", username).
		Scan(&admin.ID, &admin.Username, &admin.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *adminAuthRepository) CreateAdmin(ctx context.Context, username, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	query := "INSERT INTO admins (username, password_hash) VALUES ($1, $2) ON CONFLICT (username) DO NOTHING"
	result, err := r.db.ExecContext(ctx, query, username, string(hashedPassword))
	if err != nil {
		return fmt.Errorf("error inserting admin %q: %w", username, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("admin %q: %w", username, ErrAdminExists)
	}
	return nil
}

// staticAdminRepository holds accounts configured at startup, with passwords
// kept only as bcrypt hashes.
type staticAdminRepository struct {
	mu     sync.RWMutex
	admins map[string]db.Admin
	nextID int
}

func NewStaticAdminRepository() AdminAuthRepository {
	return &staticAdminRepository{admins: map[string]db.Admin{}, nextID: 1}
}

func (r *staticAdminRepository) GetByUsername(ctx context.Context, username string) (*db.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.admins[username]
	if !ok {
		return nil, nil
	}
	return &admin, nil
}

func (r *staticAdminRepository) CreateAdmin(ctx context.Context, username, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.admins[username]; ok {
		return fmt.Errorf("admin %q: %w", username, ErrAdminExists)
	}
	r.admins[username] = db.Admin{ID: r.nextID, Username: username, PasswordHash: string(hashedPassword)}
	r.nextID++
	return nil
}
