package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/config"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/api/handler"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/api/middleware"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/jwt"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/redis"
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
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── 签到页（公开端点，站岗平板无登录态，限流保护）──
	checkin := r.Group("/checkin")
	checkin.Use(middleware.RateLimit(rdb, 30, time.Minute))
	{
		checkin.POST("/validate", h.Attendance.ValidateGuard)
		checkin.POST("/events", h.Attendance.CheckIn)
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.POST("/staff", middleware.RoleAuth(model.RoleDirector), h.User.CreateStaff)
				users.GET("", middleware.RoleAuth(model.RoleDirector), h.User.ListUsers)
				users.GET("/guards", middleware.RoleAuth(model.RoleDirector, model.RoleInstructor), h.User.ListGuards)
				users.GET("/:id", middleware.RoleAuth(model.RoleDirector), h.User.GetUser)
				users.PUT("/:id", middleware.RoleAuth(model.RoleDirector), h.User.UpdateUser)
				users.DELETE("/:id", middleware.RoleAuth(model.RoleDirector), h.User.DeactivateUser)
			}

			// 考勤模块
			attendance := authorized.Group("/attendance")
			attendance.Use(middleware.RoleAuth(model.RoleDirector))
			{
				attendance.POST("/reconcile", h.Attendance.Reconcile)
				attendance.GET("/intervals", h.Attendance.ListIntervals)
				attendance.GET("/export", h.Attendance.ExportLog)
			}

			// 时薪模块
			rates := authorized.Group("/rates")
			rates.Use(middleware.RoleAuth(model.RoleDirector))
			{
				rates.POST("", h.Payroll.ActivateRate)
				rates.GET("/:guardId", h.Payroll.ListRates)
				rates.GET("/:guardId/active", h.Payroll.GetActiveRate)
			}

			// 税率配置模块
			taxConfig := authorized.Group("/tax-config")
			taxConfig.Use(middleware.RoleAuth(model.RoleDirector))
			{
				taxConfig.GET("", h.Payroll.GetTaxConfig)
				taxConfig.PUT("", h.Payroll.UpdateTaxConfig)
			}

			// 工资单模块
			payrolls := authorized.Group("/payrolls")
			{
				payrolls.POST("", middleware.RoleAuth(model.RoleDirector), h.Payroll.Generate)
				payrolls.GET("", middleware.RoleAuth(model.RoleDirector), h.Payroll.ListPayrolls)
				payrolls.GET("/my", middleware.RoleAuth(model.RoleGuard), h.Payroll.MyPayrolls)
				payrolls.GET("/:id", middleware.RoleAuth(model.RoleDirector), h.Payroll.GetPayroll)
				payrolls.DELETE("/:id", middleware.RoleAuth(model.RoleDirector), h.Payroll.DeletePayroll)
			}

			// 排班模块
			rosters := authorized.Group("/rosters")
			{
				rosters.POST("", middleware.RoleAuth(model.RoleDirector), h.Roster.Generate)
				rosters.GET("", h.Roster.GetByDate)
				rosters.GET("/my/calendar.ics", middleware.RoleAuth(model.RoleGuard), h.Roster.MyCalendar)
			}

			// 事件工单模块
			incidents := authorized.Group("/incidents")
			{
				incidents.POST("", middleware.RoleAuth(model.RoleResident), h.Incident.Create)
				incidents.GET("", middleware.RoleAuth(model.RoleDirector, model.RoleGuard), h.Incident.List)
				incidents.GET("/my", middleware.RoleAuth(model.RoleResident), h.Incident.MyIncidents)
				incidents.GET("/:id", h.Incident.Get) // 住户本人校验在 Service 层
				incidents.PUT("/:id/status", middleware.RoleAuth(model.RoleDirector), h.Incident.UpdateStatus)
			}

			// 培训模块
			training := authorized.Group("/training/sessions")
			{
				training.POST("", middleware.RoleAuth(model.RoleInstructor), h.Training.CreateSession)
				training.GET("", h.Training.ListSessions)
				training.GET("/my", middleware.RoleAuth(model.RoleInstructor, model.RoleGuard), h.Training.MySessions)
				training.GET("/:id", h.Training.GetSession)
				training.POST("/:id/enroll", middleware.RoleAuth(model.RoleGuard, model.RoleDirector), h.Training.Enroll)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/payroll-summary", middleware.RoleAuth(model.RoleDirector), h.Export.ExportPayrollSummary)
			}
		}
	}

	return r
}
