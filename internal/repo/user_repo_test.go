package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"city-registry/internal/core/database"
	"city-registry/internal/domain"
	"city-registry/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.City{}, &domain.UserCity{}))
	return db
}

func seedUser(t *testing.T, r *UserRepo, mutate func(*domain.User)) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:       utils.NewID(),
		Name:     "Ada",
		LastName: "Lovelace",
		Username: "ada-" + utils.NewID()[:8],
		Mail:     utils.NewID()[:8] + "@example.com",
		Password: "x",
		Active:   true,
	}
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, r.Create(context.Background(), u, nil))
	return u
}

func seedCity(t *testing.T, db *gorm.DB, name string, active, deleted bool) *domain.City {
	t.Helper()
	c := &domain.City{ID: utils.NewID(), Name: name, Active: active, Deleted: deleted}
	require.NoError(t, db.Create(c).Error)
	return c
}

func TestUserRepo_Create_AssignsVisibleID(t *testing.T) {
	r := NewUserRepo(newTestDB(t))
	u1 := seedUser(t, r, nil)
	u2 := seedUser(t, r, nil)
	assert.Equal(t, 1, u1.IDVisible)
	assert.Equal(t, 2, u2.IDVisible)
}

func TestUserRepo_Create_WithLinks(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()

	city := seedCity(t, db, "Valencia", true, false)
	u := &domain.User{ID: utils.NewID(), Username: "linked", Mail: "linked@example.com", Password: "x", Active: true}
	require.NoError(t, r.Create(ctx, u, []string{city.ID}))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.UserCity, 1)
	assert.Equal(t, city.ID, got.UserCity[0].CityID)
	require.NotNil(t, got.UserCity[0].City)
	assert.Equal(t, "Valencia", got.UserCity[0].City.Name)
}

func TestUserRepo_FindByLogin(t *testing.T) {
	r := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	seedUser(t, r, func(u *domain.User) {
		u.Username = "grace"
		u.Mail = "grace@example.com"
	})

	byName, err := r.FindByLogin(ctx, "grace")
	require.NoError(t, err)
	require.NotNil(t, byName)

	byMail, err := r.FindByLogin(ctx, "grace@example.com")
	require.NoError(t, err)
	require.NotNil(t, byMail)
	assert.Equal(t, byName.ID, byMail.ID)

	missing, err := r.FindByLogin(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_FindByLogin_SkipsDeleted(t *testing.T) {
	r := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	u := seedUser(t, r, func(u *domain.User) { u.Username = "gone" })
	deleted := true
	_, err := r.Patch(ctx, u.ID, domain.UserPatch{Deleted: &deleted})
	require.NoError(t, err)

	got, err := r.FindByLogin(ctx, "gone")
	require.NoError(t, err)
	assert.Nil(t, got)

	// direct lookup still sees the row, flag set
	byID, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.True(t, byID.Deleted)
}

func TestUserRepo_List_Filters(t *testing.T) {
	r := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	seedUser(t, r, func(u *domain.User) { u.Name = "Ada"; u.LastName = "Lovelace"; u.Username = "ada"; u.Mail = "ada@calc.org" })
	seedUser(t, r, func(u *domain.User) { u.Name = "Grace"; u.LastName = "Hopper"; u.Username = "ghopper"; u.Mail = "grace@navy.mil"; u.Root = true })
	seedUser(t, r, func(u *domain.User) { u.Name = "Linus"; u.LastName = "T"; u.Username = "linus"; u.Mail = "linus@kernel.org"; u.Active = false })

	// name matches name OR last_name, case-insensitive
	out, err := r.List(ctx, domain.UserFilter{Name: "HOPP"}, domain.Paginator{})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "ghopper", out.Data[0].Username)

	// id filters on the visible sequential id
	out, err = r.List(ctx, domain.UserFilter{ID: 1}, domain.Paginator{})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "ada", out.Data[0].Username)

	active := false
	out, err = r.List(ctx, domain.UserFilter{Active: &active}, domain.Paginator{})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "linus", out.Data[0].Username)

	rootOnly := true
	out, err = r.List(ctx, domain.UserFilter{Root: &rootOnly}, domain.Paginator{})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "ghopper", out.Data[0].Username)

	out, err = r.List(ctx, domain.UserFilter{Mail: "kernel"}, domain.Paginator{})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)

	// absent filters return everything not deleted
	out, err = r.List(ctx, domain.UserFilter{}, domain.Paginator{})
	require.NoError(t, err)
	assert.Len(t, out.Data, 3)
	assert.Equal(t, int64(3), out.Metadata.TotalRecords)
	assert.Nil(t, out.Metadata.LastPage)
}

func TestUserRepo_List_Pagination(t *testing.T) {
	r := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		seedUser(t, r, nil)
	}

	out, err := r.List(ctx, domain.UserFilter{}, domain.Paginator{Page: 1, PerPage: 3})
	require.NoError(t, err)
	assert.Len(t, out.Data, 3)
	assert.Equal(t, int64(10), out.Metadata.TotalRecords)
	assert.Equal(t, 1, out.Metadata.Page)
	require.NotNil(t, out.Metadata.LastPage)
	assert.Equal(t, 4, *out.Metadata.LastPage)

	// last page carries the remainder
	out, err = r.List(ctx, domain.UserFilter{}, domain.Paginator{Page: 4, PerPage: 3})
	require.NoError(t, err)
	assert.Len(t, out.Data, 1)
}

func TestUserRepo_List_Sort(t *testing.T) {
	r := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	seedUser(t, r, func(u *domain.User) { u.Username = "bbb" })
	seedUser(t, r, func(u *domain.User) { u.Username = "aaa" })
	seedUser(t, r, func(u *domain.User) { u.Username = "ccc" })

	out, err := r.List(ctx, domain.UserFilter{}, domain.Paginator{SortBy: "asc", SortByProperty: "username"})
	require.NoError(t, err)
	require.Len(t, out.Data, 3)
	assert.Equal(t, "aaa", out.Data[0].Username)
	assert.Equal(t, "ccc", out.Data[2].Username)

	out, err = r.List(ctx, domain.UserFilter{}, domain.Paginator{SortBy: "desc", SortByProperty: "username"})
	require.NoError(t, err)
	assert.Equal(t, "ccc", out.Data[0].Username)
}

func TestUserRepo_List_ExcludesDeleted(t *testing.T) {
	r := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	keep := seedUser(t, r, nil)
	gone := seedUser(t, r, nil)
	deleted := true
	_, err := r.Patch(ctx, gone.ID, domain.UserPatch{Deleted: &deleted})
	require.NoError(t, err)

	out, err := r.List(ctx, domain.UserFilter{}, domain.Paginator{})
	require.NoError(t, err)
	require.Len(t, out.Data, 1)
	assert.Equal(t, keep.ID, out.Data[0].ID)
}

func TestUserRepo_Patch_RelationDiff(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()

	a := seedCity(t, db, "A", true, false)
	b := seedCity(t, db, "B", true, false)
	c := seedCity(t, db, "C", true, false)

	u := &domain.User{ID: utils.NewID(), Username: "differ", Mail: "differ@example.com", Password: "x", Active: true}
	require.NoError(t, r.Create(ctx, u, []string{a.ID, b.ID}))

	got, err := r.Patch(ctx, u.ID, domain.UserPatch{
		UpdateCityID:  []string{c.ID},
		DeletedCityID: []string{a.ID},
	})
	require.NoError(t, err)

	linked := map[string]bool{}
	for _, uc := range got.UserCity {
		linked[uc.CityID] = true
	}
	assert.Equal(t, map[string]bool{b.ID: true, c.ID: true}, linked)
}

func TestUserRepo_Patch_EmptyDiffKeepsLinks(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()

	a := seedCity(t, db, "A", true, false)
	u := &domain.User{ID: utils.NewID(), Username: "stable", Mail: "stable@example.com", Password: "x", Active: true}
	require.NoError(t, r.Create(ctx, u, []string{a.ID}))

	name := "Renamed"
	got, err := r.Patch(ctx, u.ID, domain.UserPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	require.Len(t, got.UserCity, 1)
	assert.Equal(t, a.ID, got.UserCity[0].CityID)
}

func TestUserRepo_Links_HideInactiveCities(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()

	visible := seedCity(t, db, "Visible", true, false)
	inactive := seedCity(t, db, "Inactive", false, false)
	softDeleted := seedCity(t, db, "Gone", true, true)

	u := &domain.User{ID: utils.NewID(), Username: "picky", Mail: "picky@example.com", Password: "x", Active: true}
	require.NoError(t, r.Create(ctx, u, []string{visible.ID, inactive.ID, softDeleted.ID}))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.UserCity, 1)
	assert.Equal(t, visible.ID, got.UserCity[0].CityID)
}

func TestUserRepo_UpdateCredentials(t *testing.T) {
	r := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	u := seedUser(t, r, func(u *domain.User) { u.Name = "Keep"; u.Otp = "old-otp" })
	otp := "new-otp"
	require.NoError(t, r.UpdateCredentials(ctx, u.ID, "new-hash", &otp))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.Password)
	assert.Equal(t, "new-otp", got.Otp)
	assert.Equal(t, "Keep", got.Name)

	// absent otp leaves the stored value alone
	require.NoError(t, r.UpdateCredentials(ctx, u.ID, "other-hash", nil))
	got, err = r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-otp", got.Otp)
}
