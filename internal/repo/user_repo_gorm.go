package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"city-registry/internal/domain"
	"city-registry/pkg/utils"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// withLinks preloads city links restricted to active, non-deleted cities,
// including the city row itself.
func withLinks(db *gorm.DB) *gorm.DB {
	return db.
		Preload("UserCity", "city_id IN (SELECT id FROM cities WHERE active = ? AND deleted = ?)", true, false).
		Preload("UserCity.City")
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User, cityIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Count(&count).Error; err != nil {
			return err
		}
		u.IDVisible = int(count) + 1
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if len(cityIDs) == 0 {
			return nil
		}
		links := make([]domain.UserCity, 0, len(cityIDs))
		for _, cid := range cityIDs {
			links = append(links, domain.UserCity{ID: utils.NewID(), UserID: u.ID, CityID: cid})
		}
		return tx.Create(&links).Error
	})
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := withLinks(r.db.WithContext(ctx)).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByLogin(ctx context.Context, handle string) (*domain.User, error) {
	var u domain.User
	err := withLinks(r.db.WithContext(ctx)).
		Where("deleted = ?", false).
		Where("(username = ? OR mail = ?)", handle, handle).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByUsernameOrMail(ctx context.Context, username, mail string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("(username = ? OR mail = ?)", username, mail).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, f domain.UserFilter, p domain.Paginator) (*domain.List[domain.User], error) {
	q := r.db.WithContext(ctx).Model(&domain.User{}).Where("deleted = ?", false)

	if f.Name != "" {
		like := "%" + strings.ToLower(f.Name) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(last_name) LIKE ?)", like, like)
	}
	if f.ID > 0 {
		q = q.Where("id_visible = ?", f.ID)
	}
	if f.Mail != "" {
		q = q.Where("mail LIKE ?", "%"+f.Mail+"%")
	}
	if f.Username != "" {
		q = q.Where("username LIKE ?", "%"+f.Username+"%")
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	if f.Root != nil {
		q = q.Where("root = ?", *f.Root)
	}

	// count over the filtered set, before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	if order, ok := p.OrderClause(domain.UserSortFields, domain.UserDefaultSort); ok {
		q = q.Order(order)
	}
	if p.Paged() {
		q = q.Offset(p.Offset()).Limit(p.PerPage)
	}

	var users []domain.User
	if err := withLinks(q).Find(&users).Error; err != nil {
		return nil, err
	}
	return &domain.List[domain.User]{Data: users, Metadata: p.Metadata(total)}, nil
}

func (r *UserRepo) Patch(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if fields := patch.Fields(); len(fields) > 0 {
			if err := tx.Model(&domain.User{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}
		if len(patch.UpdateCityID) > 0 {
			links := make([]domain.UserCity, 0, len(patch.UpdateCityID))
			for _, cid := range patch.UpdateCityID {
				links = append(links, domain.UserCity{ID: utils.NewID(), UserID: id, CityID: cid})
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
		if len(patch.DeletedCityID) > 0 {
			if err := tx.Where("user_id = ? AND city_id IN ?", id, patch.DeletedCityID).
				Delete(&domain.UserCity{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepo) UpdateCredentials(ctx context.Context, id, passwordHash string, otp *string) error {
	fields := map[string]any{"password": passwordHash}
	if otp != nil {
		fields["otp"] = *otp
	}
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(fields).Error
}
