package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/lifetrack/internal/db"
	"github.com/lifetrack/internal/handler"
)

// 会话 Cookie 的有效期（秒）
const sessionMaxAge = 7 * 24 * 3600

// SetupRouter 配置 Gin 引擎和路由
// templateGlob 为空时跳过模板加载，便于纯 API 测试
// secureCookies 仅在 TLS 部署下开启，否则浏览器会丢弃 Secure 会话 Cookie
func SetupRouter(sessionSecret, templateGlob string, secureCookies bool) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件；gorilla 默认 Secure+SameSite=None，必须显式覆盖
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		Secure:   secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("lifetrack_session", store))

	if templateGlob != "" {
		r.LoadHTMLGlob(templateGlob)
	}

	api := handler.NewAPI(db.DB)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.GET("/login", handler.ShowLoginPage)
	r.POST("/login", handler.Login)
	r.GET("/logout", handler.Logout)

	// 公开的只读得分分享
	r.GET("/share/:token", api.ShareScore)

	// 需要认证的路由
	auth := r.Group("")
	auth.Use(handler.AuthRequired())
	{
		auth.GET("/dashboard", api.ShowDashboard)

		// API路由
		apiGroup := auth.Group("/api")
		{
			apiGroup.GET("/habits", api.ListHabits)
			apiGroup.POST("/habits", api.CreateHabit)
			apiGroup.GET("/habits/:id", api.GetHabit)
			apiGroup.PUT("/habits/:id", api.UpdateHabit)
			apiGroup.DELETE("/habits/:id", api.DeleteHabit)
			apiGroup.POST("/habits/:id/completions", api.SetHabitCompletion)
			apiGroup.DELETE("/habits/:id/completions", api.ClearHabitCompletion)
			apiGroup.GET("/completions", api.ListHabitCompletions)

			apiGroup.GET("/priorities", api.ListPriorities)
			apiGroup.POST("/priorities", api.CreatePriority)
			apiGroup.PUT("/priorities/:id", api.UpdatePriority)
			apiGroup.DELETE("/priorities/:id", api.DeletePriority)

			apiGroup.GET("/todos", api.ListTodos)
			apiGroup.POST("/todos", api.CreateTodo)
			apiGroup.PUT("/todos/:id", api.UpdateTodo)
			apiGroup.DELETE("/todos/:id", api.DeleteTodo)

			apiGroup.GET("/score", api.GetScore)
			apiGroup.GET("/score/range", api.GetScoreRange)
			apiGroup.GET("/score/streaks", api.GetStreaks)
			apiGroup.GET("/score/weights", api.GetWeights)
			apiGroup.PUT("/score/weights", api.UpdateWeights)

			apiGroup.GET("/goals", api.ListGoals)
			apiGroup.POST("/goals", api.CreateGoal)
			apiGroup.GET("/goals/:id", api.GetGoal)
			apiGroup.PUT("/goals/:id", api.UpdateGoal)
			apiGroup.DELETE("/goals/:id", api.DeleteGoal)
			apiGroup.POST("/goals/:id/archive", api.ArchiveGoal)
			apiGroup.POST("/goals/:id/unarchive", api.UnarchiveGoal)
			apiGroup.POST("/goals/:id/milestones", api.AddMilestone)
			apiGroup.PUT("/goals/:id/milestones/:milestoneId", api.UpdateMilestone)
			apiGroup.DELETE("/goals/:id/milestones/:milestoneId", api.DeleteMilestone)

			apiGroup.GET("/plans", api.ListPlanItems)
			apiGroup.POST("/plans", api.CreatePlanItem)
			apiGroup.PUT("/plans/:id", api.UpdatePlanItem)
			apiGroup.DELETE("/plans/:id", api.DeletePlanItem)
			apiGroup.POST("/plans/sync", api.SyncPlanWeek)

			apiGroup.GET("/reflections", api.GetReflection)
			apiGroup.PUT("/reflections", api.UpsertReflection)
		}
	}

	return r
}
