package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"city-registry/internal/domain"
	"city-registry/internal/service"
	"city-registry/internal/transport/http/ez"
)

type cityRoutes struct {
	cities *service.CityService
}

func (m *cityRoutes) Mount(_, authed *gin.RouterGroup) {
	g := authed.Group("/city")
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[service.CreateCityInput, *domain.City]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.CreateCityInput) (*domain.City, error) {
			city, err := m.cities.Create(c.Request.Context(), *in, c.GetString("userId"))
			if err != nil {
				return nil, svcErr(err)
			}
			return city, nil
		},
	})

	type listIn struct {
		domain.CityFilter
		domain.Paginator
	}
	ez.RegisterAction(e, ez.Action[listIn, *domain.List[domain.City]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listIn) (*domain.List[domain.City], error) {
			out, err := m.cities.FindAll(c.Request.Context(), in.CityFilter, in.Paginator)
			if err != nil {
				return nil, svcErr(err)
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.City]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.City, error) {
			city, err := m.cities.FindOne(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, svcErr(err)
			}
			return city, nil
		},
	})

	ez.RegisterAction(e, ez.Action[domain.CityPatch, *domain.City]{
		Method: http.MethodPatch,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *domain.CityPatch) (*domain.City, error) {
			city, err := m.cities.Update(c.Request.Context(), c.Param("id"), *in)
			if err != nil {
				return nil, svcErr(err)
			}
			return city, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, string]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (string, error) {
			msg, err := m.cities.Remove(c.Request.Context(), c.Param("id"))
			if err != nil {
				return "", svcErr(err)
			}
			return msg, nil
		},
	})
}
