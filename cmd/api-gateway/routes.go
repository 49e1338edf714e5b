package main

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/academics-api/internal/handler"
	internalmiddleware "github.com/noah-isme/academics-api/internal/middleware"
	"github.com/noah-isme/academics-api/internal/models"
	"github.com/noah-isme/academics-api/internal/service"
	"github.com/noah-isme/academics-api/pkg/config"
	"github.com/noah-isme/academics-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academics-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academics-api/pkg/middleware/requestid"
)

// routeDeps collects what the router needs. Export and snapshot handlers are
// optional and their routes are skipped when nil.
type routeDeps struct {
	auth      *service.AuthService
	metrics   *service.MetricsService
	academics *handler.AcademicsHandler
	snapshots *handler.SnapshotHandler
	exports   *handler.ExportHandler
	tokens    *handler.AuthHandler
	probes    *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(deps.metrics))

	r.GET("/health", deps.probes.Health)
	r.GET("/ready", deps.probes.Ready)
	r.GET("/metrics", deps.probes.Prometheus)

	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/" + strings.Trim(cfg.APIPrefix, "/"))
	api.POST("/auth/token", deps.tokens.Token)
	if deps.exports != nil {
		api.GET("/exports/download", deps.exports.Download)
	}

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(deps.auth))

	decoding := secured.Group("")
	decoding.Use(
		internalmiddleware.RequireRoles(models.RoleDecoder),
		internalmiddleware.BodyLimit(cfg.MaxPayloadBytes),
		internalmiddleware.WithResponseMeta(),
	)
	decoding.POST("/decode/status", deps.academics.Status)
	decoding.POST("/decode/user", deps.academics.User)
	decoding.POST("/decode/enrollment", deps.academics.Enrollment)
	decoding.POST("/decode/grades", deps.academics.Grades)
	decoding.POST("/decode/advisor", deps.academics.Advisor)
	decoding.POST("/decode/contributors", deps.academics.Contributors)
	if deps.exports != nil {
		decoding.POST("/exports", deps.exports.Create)
	}

	if deps.snapshots != nil {
		reading := secured.Group("/snapshots")
		reading.Use(internalmiddleware.RequireRoles(models.RoleDecoder, models.RoleReader))
		reading.GET("/:regNo", deps.snapshots.List)
		reading.GET("/:regNo/latest", deps.snapshots.Latest)
	}

	secured.GET("/metrics/system", internalmiddleware.RequireRoles(models.RoleDecoder), deps.probes.System)

	return r
}
