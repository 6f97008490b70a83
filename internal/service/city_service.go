package service

import (
	"context"
	"fmt"
	"time"

	"city-registry/internal/domain"
	"city-registry/pkg/utils"
)

type CityService struct {
	cities domain.CityRepository
}

func NewCityService(cities domain.CityRepository) *CityService {
	return &CityService{cities: cities}
}

type CreateCityInput struct {
	Name   string `json:"name" binding:"required"`
	Active *bool  `json:"active"`
}

// Create records the authenticated caller as the uploader; the repository
// assigns the visible sequential id.
func (s *CityService) Create(ctx context.Context, in CreateCityInput, userID string) (*domain.City, error) {
	c := &domain.City{
		ID:           utils.NewID(),
		Name:         in.Name,
		Active:       true,
		UploadUserID: userID,
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	if err := s.cities.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return c, nil
}

func (s *CityService) FindAll(ctx context.Context, f domain.CityFilter, p domain.Paginator) (*domain.List[domain.City], error) {
	return s.cities.List(ctx, f, p)
}

func (s *CityService) FindOne(ctx context.Context, id string) (*domain.City, error) {
	c, err := s.cities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: city with ID %s", ErrNotFound, id)
	}
	return c, nil
}

func (s *CityService) Update(ctx context.Context, id string, patch domain.CityPatch) (*domain.City, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}
	c, err := s.cities.Patch(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return c, nil
}

func (s *CityService) Remove(ctx context.Context, id string) (string, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return "", err
	}
	deleted := true
	now := time.Now()
	if _, err := s.cities.Patch(ctx, id, domain.CityPatch{Deleted: &deleted, DeletedAt: &now}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return fmt.Sprintf("City with ID %s removed", id), nil
}
