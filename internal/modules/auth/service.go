package auth

import (
	"context"
	"errors"
	"strings"

	"tourmarket/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Incorrect email or password"

// Service contains the signup and sign-in logic
type Service struct {
	users UserRepository
	jwt   TokenIssuer
	log   logrus.FieldLogger
}

func NewService(users UserRepository, jwt TokenIssuer, log logrus.FieldLogger) *Service {
	return &Service{users: users, jwt: jwt, log: log}
}

// Register creates an account with a self-registrable role; traveler when none is given.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	role := domain.RoleTraveler
	if r := strings.ToLower(strings.TrimSpace(req.Role)); r != "" {
		role = domain.UserRole(r)
	}
	if !role.SelfRegistrable() {
		return nil, domain.InvalidInput("Role must be one of: traveler, guide, hotel-manager")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorized(invalidCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.WithField("user_id", user.ID).Warn("login failed: wrong password")
		return nil, domain.Unauthorized(invalidCredentials)
	}

	return s.issue(user)
}

func (s *Service) Me(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	if !caller.Authenticated() {
		return nil, domain.Unauthorized("You are not logged in")
	}
	return s.users.GetByID(ctx, caller.ID)
}

func (s *Service) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, domain.Internal("auth.issue_token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.Internal("auth.hash_password", err)
	}
	return string(hash), nil
}
