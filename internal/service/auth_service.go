package service

import (
	"errors"
	"strings"
	"time"

	"tamvems/internal/auth"
	"tamvems/internal/db"
	"tamvems/internal/httperr"
	"tamvems/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// AuthService exchanges credentials for signed tokens.
type AuthService struct {
	users repository.UserRepository
	jwt   *auth.Middleware
	log   *zap.Logger
}

func NewAuthService(users repository.UserRepository, jwt *auth.Middleware, log *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, log: log}
}

// Login verifies the password and returns a token plus the account. Inactive
// and deleted accounts cannot log in. The same generic message covers an
// unknown email and a wrong password.
func (s *AuthService) Login(email, password string) (string, *db.User, error) {
	user, err := s.users.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, httperr.Unauthorized("invalid credentials")
		}
		s.log.Error("login: get user", zap.Error(err))
		return "", nil, httperr.Internal()
	}
	if !user.IsActive {
		return "", nil, httperr.Unauthorized("account is inactive")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, httperr.Unauthorized("invalid credentials")
	}

	token, err := s.jwt.GenerateToken(user, tokenTTL)
	if err != nil {
		s.log.Error("login: sign token", zap.Error(err))
		return "", nil, httperr.Internal()
	}
	return token, user, nil
}
