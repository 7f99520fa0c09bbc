package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sellscout/sellscout-backend-go/internal/models"
	"github.com/sellscout/sellscout-backend-go/internal/repository"
)

// Auth errors surfaced to handlers
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username or email already registered")
)

const tokenLifetime = 24 * time.Hour

// Claims carried in session tokens
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService handles registration and login
type AuthService struct {
	users     *repository.UserRepository
	jwtSecret []byte
	log       zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users *repository.UserRepository, jwtSecret string, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		log:       log.With().Str("component", "auth").Logger(),
	}
}

// Register creates a new account
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:             req.Username,
		Email:                req.Email,
		PasswordHash:         string(hash),
		CreatedAt:            time.Now().UTC(),
		IsActive:             true,
		ReceiveNotifications: true,
	}

	id, err := s.users.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	user.ID = id

	s.log.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues a session token
func (s *AuthService) Login(req *models.LoginRequest) (string, *models.User, error) {
	user, err := s.users.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn().Str("username", req.Username).Msg("login failed")
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.log.Warn().Str("username", req.Username).Msg("login failed")
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(user.ID, now); err != nil {
		return "", nil, err
	}
	user.LastLogin = &now

	token, err := s.issueToken(user, now)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("user logged in")
	return token, user, nil
}

// GetUser loads a user by id
func (s *AuthService) GetUser(id int64) (*models.User, error) {
	return s.users.GetByID(id)
}

func (s *AuthService) issueToken(user *models.User, now time.Time) (string, error) {
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
