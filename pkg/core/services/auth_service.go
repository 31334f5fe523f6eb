package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/KI0T0/teste-back-end-teddy/pkg/core/domain"
	"github.com/KI0T0/teste-back-end-teddy/pkg/ports"
)

// SessionClaims is the payload of a session token. Subject holds the user id.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users      ports.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	logger     *slog.Logger

	// dummyHash keeps login timing similar for unknown emails.
	dummyHash []byte
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, logger *slog.Logger) *AuthService {
	return newAuthService(users, jwtSecret, tokenTTL, bcrypt.DefaultCost, logger)
}

func newAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, cost int, logger *slog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: cost,
		logger:     logger,
		dummyHash:  dummy,
	}
}

// TokenTTL is how long issued session tokens stay valid.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email, err := domain.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.unavailable(ctx, "lookup user", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, s.unavailable(ctx, "hash password", err)
	}

	user := &domain.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrEmailTaken
		}
		return nil, s.unavailable(ctx, "create user", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the password and returns a signed session token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email, err := domain.NormalizeEmail(email)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", s.unavailable(ctx, "lookup user", err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// LoginWithVerifiedEmail signs in a user whose email an external identity
// provider has already verified, creating the account on first use.
func (s *AuthService) LoginWithVerifiedEmail(ctx context.Context, email string) (string, error) {
	email, err := domain.NormalizeEmail(email)
	if err != nil {
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", s.unavailable(ctx, "lookup user", err)
	}

	if user == nil {
		// No password login for these accounts until one is set.
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return "", s.unavailable(ctx, "random password", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(base64.RawURLEncoding.EncodeToString(secret)), s.bcryptCost)
		if err != nil {
			return "", s.unavailable(ctx, "hash password", err)
		}
		user = &domain.User{Email: email, PasswordHash: string(hash)}
		if err := s.users.Create(ctx, user); err != nil {
			if !errors.Is(err, domain.ErrDuplicateEmail) {
				return "", s.unavailable(ctx, "create user", err)
			}
			// Created concurrently.
			user, err = s.users.GetByEmail(ctx, email)
			if err != nil || user == nil {
				return "", s.unavailable(ctx, "lookup user", fmt.Errorf("reload after duplicate: %w", err))
			}
		} else {
			s.logger.InfoContext(ctx, "user created from external login", "user_id", user.ID)
		}
	}

	return s.issueToken(user)
}

// VerifyToken validates a session token and returns the actor it names.
func (s *AuthService) VerifyToken(_ context.Context, tokenString string) (*domain.Actor, error) {
	if tokenString == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, domain.ErrUnauthenticated
	}

	return &domain.Actor{UserID: userID, Email: claims.Email}, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) unavailable(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "auth failure", "op", op, "error", err)
	return domain.ErrServiceUnavailable
}

var _ ports.AuthService = (*AuthService)(nil)
