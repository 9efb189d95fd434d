package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Musikislyfe/ConstruX/config"
	"github.com/Musikislyfe/ConstruX/internal/api/handler"
	"github.com/Musikislyfe/ConstruX/internal/api/middleware"
	"github.com/Musikislyfe/ConstruX/pkg/jwt"
	"github.com/Musikislyfe/ConstruX/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB，打卡请求只含坐标与照片 URL

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录加速率限制防撞库）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 考勤模块
			attendance := authorized.Group("/attendance")
			{
				attendance.POST("/check-in", h.Attendance.CheckIn)
				attendance.POST("/check-out", h.Attendance.CheckOut)
				attendance.GET("/current", h.Attendance.CurrentShift)
			}

			// 班次查询与导出（工人只能查自己的记录，Handler 层收口）
			shifts := authorized.Group("/shifts")
			{
				shifts.GET("", h.Attendance.ListShifts)
				shifts.GET("/export", middleware.RoleAuth("admin", "foreman"), h.Export.ExportTimesheet)
			}

			// 工人模块
			workers := authorized.Group("/workers")
			{
				workers.GET("/me", h.Worker.GetCurrentWorker)
				workers.GET("", middleware.RoleAuth("admin", "foreman"), h.Worker.ListWorkers)
				workers.GET("/:id", middleware.RoleAuth("admin", "foreman"), h.Worker.GetWorker)
				workers.POST("", middleware.RoleAuth("admin"), h.Worker.CreateWorker)
			}

			// 工地模块
			sites := authorized.Group("/sites")
			{
				sites.GET("", h.Site.ListSites)
				sites.GET("/:id", h.Site.GetSite)
				sites.POST("", middleware.RoleAuth("admin", "foreman"), h.Site.CreateSite)
				sites.PUT("/:id", middleware.RoleAuth("admin", "foreman"), h.Site.UpdateSite)
				sites.DELETE("/:id", middleware.RoleAuth("admin"), h.Site.DeleteSite)
			}
		}
	}

	return r
}
