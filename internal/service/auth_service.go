package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"city-registry/internal/core/auth"
	"city-registry/internal/domain"
	"city-registry/pkg/utils"
)

// Bootstrap root account, ensured to exist once per deployment.
const (
	rootUsername = "admin"
	rootMail     = "admin@admin.com"
	rootPassword = "contraseña#admin2024"
)

type AuthService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwt *auth.JWTer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, log: log}
}

type LoginResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Login authenticates a non-deleted user by username or mail and issues a
// token over {sub, username, otp}.
func (s *AuthService) Login(ctx context.Context, handle, password string) (*LoginResult, error) {
	if handle == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	u, err := s.users.FindByLogin(ctx, handle)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if !utils.CheckPassword(password, u.Password) {
		return nil, ErrWrongCredentials
	}
	token, err := s.jwt.Issue(u.ID, u.Username, u.Otp)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Token: token}, nil
}

type RegisterInput struct {
	Name         string   `json:"name"`
	LastName     string   `json:"last_name"`
	Username     string   `json:"username" binding:"required"`
	Mail         string   `json:"mail" binding:"required,email"`
	Password     string   `json:"password" binding:"required"`
	Otp          string   `json:"otp"`
	UpdateCityID []string `json:"updateCityID"`
}

// Register creates a user with a store-generated id, recording ownerID as the
// creator reference, and links any requested cities in the same transaction.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, ownerID string) (*domain.User, error) {
	u := &domain.User{
		ID:          utils.NewID(),
		Name:        in.Name,
		LastName:    in.LastName,
		Username:    in.Username,
		Mail:        in.Mail,
		Password:    utils.HashPassword(in.Password),
		Otp:         in.Otp,
		Active:      true,
		CreatedByID: ownerID,
	}
	if err := s.users.Create(ctx, u, in.UpdateCityID); err != nil {
		s.log.Error("register user", zap.String("username", in.Username), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrRegistration, err)
	}
	return s.users.FindByID(ctx, u.ID)
}

// CheckToken reports token liveness, swallowing every verification failure.
func (s *AuthService) CheckToken(token string) bool {
	return s.jwt.Check(token)
}

// EnsureRootUser is the idempotent bootstrap step run once at process start.
// Failures are logged and never propagated; startup continues regardless.
func (s *AuthService) EnsureRootUser(ctx context.Context) {
	root, err := s.users.FindByUsernameOrMail(ctx, rootUsername, rootMail)
	if err != nil {
		s.log.Error("root user lookup failed", zap.Error(err))
		return
	}
	if root != nil {
		s.log.Info("root user already exists", zap.String("id", root.ID))
		return
	}
	u := &domain.User{
		ID:       utils.NewID(),
		Username: rootUsername,
		Mail:     rootMail,
		Password: utils.HashPassword(rootPassword),
		Root:     true,
		Active:   true,
	}
	if err := s.users.Create(ctx, u, nil); err != nil {
		// a concurrent bootstrap loses on the uniqueness constraint; that is fine
		s.log.Error("root user create failed", zap.Error(err))
		return
	}
	s.log.Info("root user created", zap.String("id", u.ID))
}
