package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"city-registry/internal/domain"
	"city-registry/internal/service"
	"city-registry/internal/transport/http/ez"
	mdw "city-registry/internal/transport/http/middleware"
)

type userRoutes struct {
	users *service.UserService
}

func (m *userRoutes) Mount(_, authed *gin.RouterGroup) {
	g := authed.Group("/users")
	g.Use(mdw.UUIDParam("id"))
	e := ez.New(g)

	type listIn struct {
		domain.UserFilter
		domain.Paginator
	}
	ez.RegisterAction(e, ez.Action[listIn, *domain.List[domain.User]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listIn) (*domain.List[domain.User], error) {
			out, err := m.users.FindAll(c.Request.Context(), in.UserFilter, in.Paginator)
			if err != nil {
				return nil, svcErr(err)
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			u, err := m.users.FindOne(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, svcErr(err)
			}
			return u, nil
		},
	})

	ez.RegisterAction(e, ez.Action[service.UpdateUserInput, *domain.User]{
		Method: http.MethodPatch,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.UpdateUserInput) (*domain.User, error) {
			u, err := m.users.Update(c.Request.Context(), c.Param("id"), *in)
			if err != nil {
				return nil, svcErr(err)
			}
			return u, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, string]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (string, error) {
			msg, err := m.users.Remove(c.Request.Context(), c.Param("id"))
			if err != nil {
				return "", svcErr(err)
			}
			return msg, nil
		},
	})
}
