package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sellscout/sellscout-backend-go/internal/models"
)

// Sentinel errors shared by all repositories
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and returns the assigned id
func (r *UserRepository) Create(user *models.User) (int64, error) {
	result, err := r.db.Exec(
		`INSERT INTO users (username, email, password_hash, created_at, is_active, receive_notifications)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.CreatedAt,
		user.IsActive, user.ReceiveNotifications,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get user id: %w", err)
	}
	return id, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	return r.scanOne(r.db.QueryRow(selectUser+" WHERE id = ?", id))
}

// GetByUsername retrieves an active user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	return r.scanOne(r.db.QueryRow(selectUser+" WHERE username = ? AND is_active = 1", username))
}

// UpdateLastLogin records a successful login
func (r *UserRepository) UpdateLastLogin(id int64, at time.Time) error {
	_, err := r.db.Exec("UPDATE users SET last_login = ? WHERE id = ?", at, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// ListEligible returns users that are active and opted in to
// notifications, in id order
func (r *UserRepository) ListEligible() ([]models.User, error) {
	rows, err := r.db.Query(selectUser + " WHERE is_active = 1 AND receive_notifications = 1 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

const selectUser = `SELECT id, username, email, password_hash, created_at, last_login, is_active, receive_notifications FROM users`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var lastLogin sql.NullTime
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.CreatedAt, &lastLogin, &u.IsActive, &u.ReceiveNotifications,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
