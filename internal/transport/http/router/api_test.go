package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"city-registry/internal/core/auth"
	"city-registry/internal/core/database"
	"city-registry/internal/domain"
	"city-registry/internal/repo"
	"city-registry/internal/service"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newTestEngine(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.City{}, &domain.UserCity{}))

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "city-registry", TTL: time.Hour}
	users := repo.NewUserRepo(db)
	cities := repo.NewCityRepo(db)
	authSvc := service.NewAuthService(users, jwter, zap.NewNop())
	r := NewAPIEngine(zap.NewNop(), jwter, authSvc, service.NewUserService(users), service.NewCityService(cities))
	return r, authSvc
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func login(t *testing.T, r *gin.Engine, handle, password string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/auth/login", "", gin.H{"username": handle, "password": password})
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestAPI_Health(t *testing.T) {
	r, _ := newTestEngine(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_Login(t *testing.T) {
	r, authSvc := newTestEngine(t)
	authSvc.EnsureRootUser(t.Context())

	// bad credentials family is a 401
	for _, body := range []gin.H{
		{"username": "", "password": ""},
		{"username": "nobody", "password": "pw"},
		{"username": "admin", "password": "wrong"},
	} {
		w, env := do(t, r, http.MethodPost, "/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 401, env.Code)
	}

	tok := login(t, r, "admin", "contraseña#admin2024")

	w, env := do(t, r, http.MethodPost, "/auth/check", "", gin.H{"token": tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", string(env.Data))

	w, env = do(t, r, http.MethodPost, "/auth/check", "", gin.H{"token": "garbage"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "false", string(env.Data))
}

func TestAPI_AuthRequired(t *testing.T) {
	r, _ := newTestEngine(t)

	for _, path := range []string{"/users", "/city", "/auth/info"} {
		w, _ := do(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAPI_RegisterAndFetch(t *testing.T) {
	r, authSvc := newTestEngine(t)
	authSvc.EnsureRootUser(t.Context())
	tok := login(t, r, "admin", "contraseña#admin2024")

	w, env := do(t, r, http.MethodPost, "/auth/register", tok, gin.H{
		"name": "Ada", "last_name": "Lovelace",
		"username": "ada", "mail": "ada@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created domain.User
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.NotContains(t, string(env.Data), `"password"`)

	w, env = do(t, r, http.MethodGet, "/users/"+created.ID, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// listing carries pagination metadata
	w, env = do(t, r, http.MethodGet, "/users?page=1&perPage=1", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Metadata domain.Metadata `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(2), list.Metadata.TotalRecords) // root + ada
	require.NotNil(t, list.Metadata.LastPage)
	assert.Equal(t, 2, *list.Metadata.LastPage)
}

func TestAPI_UserIDMustBeUUID(t *testing.T) {
	r, authSvc := newTestEngine(t)
	authSvc.EnsureRootUser(t.Context())
	tok := login(t, r, "admin", "contraseña#admin2024")

	w, env := do(t, r, http.MethodGet, "/users/not-a-uuid", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 400, env.Code)

	// city ids are not uuid-guarded; unknown ones are a plain 404
	w, _ = do(t, r, http.MethodGet, "/city/whatever", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_CityLifecycle(t *testing.T) {
	r, authSvc := newTestEngine(t)
	authSvc.EnsureRootUser(t.Context())
	tok := login(t, r, "admin", "contraseña#admin2024")

	w, env := do(t, r, http.MethodPost, "/city", tok, gin.H{"name": "Valencia"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var c domain.City
	require.NoError(t, json.Unmarshal(env.Data, &c))
	assert.Equal(t, 1, c.IDVisible)
	require.NotNil(t, c.UploadUser)
	assert.Equal(t, "admin", c.UploadUser.Username)

	w, _ = do(t, r, http.MethodDelete, "/city/"+c.ID, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, "/city", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data     []domain.City   `json:"data"`
		Metadata domain.Metadata `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list.Data)
	assert.Zero(t, list.Metadata.TotalRecords)
}
