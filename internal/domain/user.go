package domain

import (
	"context"
	"time"
)

// User rows are never hard-deleted: Deleted + DeleteDate mark removal while the
// row stays addressable by id. Password never serializes.
type User struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	IDVisible   int        `gorm:"column:id_visible" json:"id_visible"`
	Name        string     `gorm:"size:64" json:"name"`
	LastName    string     `gorm:"column:last_name;size:64" json:"last_name"`
	Username    string     `gorm:"uniqueIndex;size:64" json:"username"`
	Mail        string     `gorm:"uniqueIndex;size:191" json:"mail"`
	Password    string     `gorm:"size:191" json:"-"`
	Root        bool       `json:"root"`
	Active      bool       `gorm:"default:true" json:"active"`
	Otp         string     `gorm:"size:191" json:"otp,omitempty"`
	Deleted     bool       `gorm:"index;default:false" json:"deleted"`
	DeleteDate  *time.Time `gorm:"column:delete_date" json:"delete_date,omitempty"`
	CreatedByID string     `gorm:"column:created_by;size:36" json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	UserCity []UserCity `gorm:"foreignKey:UserID" json:"userCity"`
}

func (User) TableName() string { return "users" }

// UserCity links a user to a city. Links are created and removed one by one
// through diff updates, never replaced wholesale.
type UserCity struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"index;size:36" json:"userID"`
	CityID string `gorm:"index;size:36" json:"cityID"`

	City *City `gorm:"foreignKey:CityID" json:"city,omitempty"`
}

func (UserCity) TableName() string { return "user_cities" }

// UserFilter holds the optional list predicates; zero values impose no
// constraint. ID matches the visible sequential id, not the primary key.
type UserFilter struct {
	Name     string `form:"name"`
	ID       int    `form:"id"`
	Mail     string `form:"mail"`
	Username string `form:"username"`
	Active   *bool  `form:"active"`
	Root     *bool  `form:"root"`
}

// UserPatch carries a partial update: nil pointers leave the column untouched.
// UpdateCityID / DeletedCityID drive the link diff inside the same transaction.
type UserPatch struct {
	Name       *string    `json:"name"`
	LastName   *string    `json:"last_name"`
	Username   *string    `json:"username"`
	Mail       *string    `json:"mail"`
	Active     *bool      `json:"active"`
	Root       *bool      `json:"root"`
	Otp        *string    `json:"otp"`
	Deleted    *bool      `json:"-"`
	DeleteDate *time.Time `json:"-"`

	UpdateCityID  []string `json:"updateCityID"`
	DeletedCityID []string `json:"deletedCityID"`
}

// Fields flattens the set pointers into a column update map.
func (p UserPatch) Fields() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.LastName != nil {
		m["last_name"] = *p.LastName
	}
	if p.Username != nil {
		m["username"] = *p.Username
	}
	if p.Mail != nil {
		m["mail"] = *p.Mail
	}
	if p.Active != nil {
		m["active"] = *p.Active
	}
	if p.Root != nil {
		m["root"] = *p.Root
	}
	if p.Otp != nil {
		m["otp"] = *p.Otp
	}
	if p.Deleted != nil {
		m["deleted"] = *p.Deleted
	}
	if p.DeleteDate != nil {
		m["delete_date"] = *p.DeleteDate
	}
	return m
}

type UserRepository interface {
	// Create persists the user and its initial city links in one transaction.
	Create(ctx context.Context, u *User, cityIDs []string) error
	// FindByID returns the row regardless of the deleted flag, links preloaded.
	// Missing rows yield (nil, nil).
	FindByID(ctx context.Context, id string) (*User, error)
	// FindByLogin matches a non-deleted user by username OR mail.
	FindByLogin(ctx context.Context, handle string) (*User, error)
	// FindByUsernameOrMail matches either column exactly, deleted rows included.
	FindByUsernameOrMail(ctx context.Context, username, mail string) (*User, error)
	List(ctx context.Context, f UserFilter, p Paginator) (*List[User], error)
	// Patch applies set fields and the link diff in one transaction and
	// returns the reloaded row.
	Patch(ctx context.Context, id string, patch UserPatch) (*User, error)
	// UpdateCredentials rotates the password hash, and the otp when one is
	// supplied, touching nothing else.
	UpdateCredentials(ctx context.Context, id, passwordHash string, otp *string) error
}
