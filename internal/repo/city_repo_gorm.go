package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"city-registry/internal/domain"
)

type CityRepo struct{ db *gorm.DB }

func NewCityRepo(db *gorm.DB) *CityRepo { return &CityRepo{db: db} }

func withUploader(db *gorm.DB) *gorm.DB {
	return db.Preload("UploadUser")
}

func (r *CityRepo) Create(ctx context.Context, c *domain.City) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// visible id = current row count + 1, soft-deleted rows included
		var count int64
		if err := tx.Model(&domain.City{}).Count(&count).Error; err != nil {
			return err
		}
		c.IDVisible = int(count) + 1
		return tx.Create(c).Error
	})
	if err != nil {
		return err
	}
	return withUploader(r.db.WithContext(ctx)).First(c, "id = ?", c.ID).Error
}

func (r *CityRepo) FindByID(ctx context.Context, id string) (*domain.City, error) {
	var c domain.City
	err := withUploader(r.db.WithContext(ctx)).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CityRepo) List(ctx context.Context, f domain.CityFilter, p domain.Paginator) (*domain.List[domain.City], error) {
	q := r.db.WithContext(ctx).Model(&domain.City{}).Where("deleted = ?", false)

	if f.ID != "" {
		q = q.Where("id = ?", f.ID)
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	if order, ok := p.OrderClause(domain.CitySortFields, domain.CityDefaultSort); ok {
		q = q.Order(order)
	}
	if p.Paged() {
		q = q.Offset(p.Offset()).Limit(p.PerPage)
	}

	var cities []domain.City
	if err := withUploader(q).Find(&cities).Error; err != nil {
		return nil, err
	}
	return &domain.List[domain.City]{Data: cities, Metadata: p.Metadata(total)}, nil
}

func (r *CityRepo) Patch(ctx context.Context, id string, patch domain.CityPatch) (*domain.City, error) {
	if fields := patch.Fields(); len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&domain.City{}).Where("id = ?", id).
			Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}
