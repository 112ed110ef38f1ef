// Package auth регистрация и аутентификация пользователей: пароли
// хранятся хэшированными bcrypt, сессии подтверждаются токенами JWT.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "screener/server/errors"

	_ "github.com/mattn/go-sqlite3"
)

// tokenLifetime срок действия выданного токена
const tokenLifetime = 24 * time.Hour

// DefaultRole роль, назначаемая при регистрации
const DefaultRole = "user"

// User учетная запись без пароля
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// Claims полезная нагрузка токена
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service сервис аутентификации поверх SQLite
type Service struct {
	db     *sql.DB
	secret []byte
	mu     sync.Mutex
}

// NewService открывает БД пользователей и создает схему при необходимости
func NewService(dbPath string, secret string) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	db, err := sql.Open("sqlite3", dbPath+"?_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open auth database: %w", err)
	}

	service := &Service{db: db, secret: []byte(secret)}
	if err := service.initTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth schema: %w", err)
	}

	return service, nil
}

// Close закрывает соединение с БД
func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) initTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Register создает пользователя. Повторное имя — ошибка валидации.
func (s *Service) Register(ctx context.Context, username, password, email string) (*User, error) {
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE username = ?`, username).Scan(&exists)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to check existing user", err)
	}
	if exists > 0 {
		return nil, apperrors.NewValidationError("user already exists", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		username, email, string(hash), DefaultRole, time.Now().Format(time.RFC3339))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read user id", err)
	}

	return &User{ID: id, Username: username, Email: email, Role: DefaultRole}, nil
}

// Login проверяет пароль и выдает подписанный токен
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	if username == "" || password == "" {
		return "", nil, apperrors.NewValidationError("username and password are required", nil)
	}

	var user User
	var passwordHash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role FROM users WHERE username = ?`,
		username).Scan(&user.ID, &user.Username, &user.Email, &passwordHash, &user.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, apperrors.NewUnauthorizedError("invalid credentials", nil)
	}
	if err != nil {
		return "", nil, apperrors.NewInternalError("failed to load user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return "", nil, apperrors.NewUnauthorizedError("invalid credentials", nil)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, apperrors.NewInternalError("failed to sign token", err)
	}

	return token, &user, nil
}

func (s *Service) issueToken(user User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken проверяет подпись и срок действия токена
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.NewUnauthorizedError("invalid or expired token", err)
	}
	return claims, nil
}
