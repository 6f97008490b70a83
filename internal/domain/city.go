package domain

import (
	"context"
	"time"
)

type City struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	IDVisible int        `gorm:"column:id_visible" json:"id_visible"`
	Name      string     `gorm:"size:128" json:"name"`
	Active    bool       `gorm:"default:true" json:"active"`
	Deleted   bool       `gorm:"index;default:false" json:"deleted"`
	DeletedAt *time.Time `gorm:"column:deleted_at" json:"deletedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	UploadUserID string   `gorm:"column:upload_user_id;size:36" json:"uploadUserID"`
	UploadUser   *UserRef `gorm:"foreignKey:UploadUserID" json:"uploadUser,omitempty"`
}

func (City) TableName() string { return "cities" }

// UserRef is the uploader projection: only the columns the city payload
// exposes, read from the users table.
type UserRef struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Name     string `json:"name"`
	LastName string `gorm:"column:last_name" json:"last_name"`
	Username string `json:"username"`
}

func (UserRef) TableName() string { return "users" }

type CityFilter struct {
	ID     string `form:"id"`
	Active *bool  `form:"active"`
}

type CityPatch struct {
	Name      *string    `json:"name"`
	Active    *bool      `json:"active"`
	Deleted   *bool      `json:"-"`
	DeletedAt *time.Time `json:"-"`
}

func (p CityPatch) Fields() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Active != nil {
		m["active"] = *p.Active
	}
	if p.Deleted != nil {
		m["deleted"] = *p.Deleted
	}
	if p.DeletedAt != nil {
		m["deleted_at"] = *p.DeletedAt
	}
	return m
}

type CityRepository interface {
	// Create assigns the visible id as total row count + 1 (soft-deleted rows
	// included) inside the insert transaction. The counter is read-then-write
	// and not race-free; a store-level constraint is the only guard.
	Create(ctx context.Context, c *City) error
	// FindByID returns the row regardless of the deleted flag, uploader
	// projection loaded. Missing rows yield (nil, nil).
	FindByID(ctx context.Context, id string) (*City, error)
	List(ctx context.Context, f CityFilter, p Paginator) (*List[City], error)
	Patch(ctx context.Context, id string, patch CityPatch) (*City, error)
}
