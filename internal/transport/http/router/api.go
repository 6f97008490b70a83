package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"city-registry/internal/core/auth"
	"city-registry/internal/service"
	mdw "city-registry/internal/transport/http/middleware"
)

// NewAPIEngine assembles the gin engine: middleware chain, health/metrics,
// then every resource module mounted onto the public and JWT-guarded groups.
func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, authSvc *service.AuthService, userSvc *service.UserService, citySvc *service.CityService) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("")
	authed := r.Group("")
	authed.Use(mdw.AuthJWT(jwter))

	reg := &Registry{}
	reg.Register(&authRoutes{auth: authSvc})
	reg.Register(&userRoutes{users: userSvc})
	reg.Register(&cityRoutes{cities: citySvc})
	reg.MountAll(public, authed)

	return r
}
