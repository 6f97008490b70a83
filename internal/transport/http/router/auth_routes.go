package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"city-registry/internal/core/auth"
	"city-registry/internal/domain"
	"city-registry/internal/service"
	"city-registry/internal/transport/http/ez"
)

type authRoutes struct {
	auth *service.AuthService
}

func (m *authRoutes) Priority() int { return 10 }

func (m *authRoutes) Mount(public, authed *gin.RouterGroup) {
	ezPub := ez.New(public)

	// empty fields are the service's concern (MissingCredentials), not binding's
	type loginIn struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	ez.RegisterAction(ezPub, ez.Action[loginIn, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (*service.LoginResult, error) {
			res, err := m.auth.Login(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				return nil, svcErr(err)
			}
			return res, nil
		},
	})

	type checkIn struct {
		Token string `json:"token"`
	}
	ez.RegisterAction(ezPub, ez.Action[checkIn, bool]{
		Method: http.MethodPost,
		Path:   "/auth/check",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *checkIn) (bool, error) {
			return m.auth.CheckToken(in.Token), nil
		},
	})

	ezAuth := ez.New(authed)

	ez.RegisterAction(ezAuth, ez.Action[service.RegisterInput, *domain.User]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.RegisterInput) (*domain.User, error) {
			u, err := m.auth.Register(c.Request.Context(), *in, c.GetString("userId"))
			if err != nil {
				return nil, svcErr(err)
			}
			return u, nil
		},
	})

	ez.RegisterAction(ezAuth, ez.Action[struct{}, *auth.Claims]{
		Method: http.MethodGet,
		Path:   "/auth/info",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*auth.Claims, error) {
			claims, ok := c.Get("claims")
			if !ok {
				return nil, ez.Unauthorized("unauthorized")
			}
			return claims.(*auth.Claims), nil
		},
	})
}
