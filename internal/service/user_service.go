package service

import (
	"context"
	"fmt"
	"time"

	"city-registry/internal/domain"
	"city-registry/pkg/utils"
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) FindAll(ctx context.Context, f domain.UserFilter, p domain.Paginator) (*domain.List[domain.User], error) {
	return s.users.List(ctx, f, p)
}

func (s *UserService) FindOne(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user with ID %s", ErrNotFound, id)
	}
	return u, nil
}

// UpdateUserInput is the PATCH body. When OldPassword is set the request is a
// credential rotation: only password and otp change, everything else is
// ignored. Otherwise the patch fields and the city-link diff apply.
type UpdateUserInput struct {
	domain.UserPatch
	OldPassword string `json:"old_password"`
	Password    string `json:"password"`
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	u, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.OldPassword != "" {
		if !utils.CheckPassword(in.OldPassword, u.Password) {
			return nil, ErrWrongCredentials
		}
		if err := s.users.UpdateCredentials(ctx, id, utils.HashPassword(in.Password), in.Otp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return s.FindOne(ctx, id)
	}

	updated, err := s.users.Patch(ctx, id, in.UserPatch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return updated, nil
}

// Remove soft-deletes: the row keeps existing with deleted=true and a
// deletion timestamp, and drops out of default list queries.
func (s *UserService) Remove(ctx context.Context, id string) (string, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return "", err
	}
	deleted := true
	now := time.Now()
	if _, err := s.users.Patch(ctx, id, domain.UserPatch{Deleted: &deleted, DeleteDate: &now}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return fmt.Sprintf("User with ID %s removed", id), nil
}
