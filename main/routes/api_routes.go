package routes

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"projecthub/config"
	"projecthub/ownership"
	"projecthub/projects"
	"projecthub/ratelimit"
	"projecthub/users"
	"projecthub/workspaces"
)

const sessionTTL = time.Hour * 672 // 28 days

func SetupAPIRoutes(r *gin.Engine, database *sql.DB, cfg *config.Config) {
	tokens := users.NewTokenManager(cfg.JWTSecret, sessionTTL)
	userHandler := users.NewHandler(database, tokens, cfg.AvatarDir)
	workspaceHandler := workspaces.NewHandler(database)
	projectHandler := projects.NewHandler(database)

	// Counter state is process-local unless REDIS_ADDR points at a shared
	// store; a multi-instance deployment needs the latter to keep the
	// limits meaningful.
	var store ratelimit.Store
	if cfg.RedisAddr != "" {
		store = ratelimit.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), "")
	} else {
		store = ratelimit.NewMemoryStore()
	}

	authLimit := ratelimit.Middleware(ratelimit.NewLimiter(store, "auth", 5, 15*time.Minute))
	apiLimit := ratelimit.Middleware(ratelimit.NewLimiter(store, "api", 60, time.Minute))
	uploadLimit := ratelimit.Middleware(ratelimit.NewLimiter(store, "upload", 10, time.Hour))

	workspaceChain := ownership.NewChain(database,
		ownership.Level{Table: "workspaces", ParentColumn: "user_id"},
	)
	projectChain := ownership.NewChain(database,
		ownership.Level{Table: "workspaces", ParentColumn: "user_id"},
		ownership.Level{Table: "projects", ParentColumn: "workspace_id"},
	)

	api := r.Group("/api", apiLimit)

	api.POST("/register", authLimit, userHandler.HandleRegister)
	api.POST("/login", authLimit, userHandler.HandleLogin)
	api.POST("/logout", userHandler.HandleLogout)

	authed := api.Group("", users.AuthMiddleware(tokens))
	authed.POST("/session/refresh", userHandler.HandleRefreshSession)
	authed.GET("/profile", userHandler.HandleProfile)
	authed.POST("/upload-avatar", uploadLimit, userHandler.HandleUploadAvatar)

	ws := authed.Group("/workspaces")
	ws.GET("", workspaceHandler.HandleList)
	ws.POST("", workspaceHandler.HandleCreate)
	// Workspace-level routes enforce ownership through their own scoped
	// SQL; the chain middleware starts paying off one level down.
	ws.GET("/:workspaceId", workspaceHandler.HandleGet)
	ws.PUT("/:workspaceId", workspaceHandler.HandleUpdate)
	ws.DELETE("/:workspaceId", workspaceHandler.HandleDelete)

	wsScoped := ws.Group("/:workspaceId", ownership.Require(workspaceChain, "workspaceId"))
	wsScoped.GET("/projects", projectHandler.HandleListProjects)
	wsScoped.POST("/projects", projectHandler.HandleCreateProject)

	proj := ws.Group("/:workspaceId/projects/:projectId",
		ownership.Require(projectChain, "workspaceId", "projectId"))
	proj.GET("", projectHandler.HandleGetProject)
	proj.PUT("", projectHandler.HandleUpdateProject)
	proj.DELETE("", projectHandler.HandleDeleteProject)

	proj.GET("/tasks", projectHandler.HandleListTasks)
	proj.POST("/tasks", projectHandler.HandleCreateTask)
	proj.GET("/tasks/:taskId", projectHandler.HandleGetTask)
	proj.PUT("/tasks/:taskId", projectHandler.HandleUpdateTask)
	proj.DELETE("/tasks/:taskId", projectHandler.HandleDeleteTask)

	proj.GET("/events", projectHandler.HandleListEvents)
	proj.POST("/events", projectHandler.HandleCreateEvent)
	proj.GET("/events/:eventId", projectHandler.HandleGetEvent)
	proj.PUT("/events/:eventId", projectHandler.HandleUpdateEvent)
	proj.DELETE("/events/:eventId", projectHandler.HandleDeleteEvent)

	proj.GET("/reminders", projectHandler.HandleListReminders)
	proj.POST("/reminders", projectHandler.HandleCreateReminder)
	proj.GET("/reminders/:reminderId", projectHandler.HandleGetReminder)
	proj.PUT("/reminders/:reminderId", projectHandler.HandleUpdateReminder)
	proj.DELETE("/reminders/:reminderId", projectHandler.HandleDeleteReminder)

	proj.GET("/content", projectHandler.HandleListContent)
	proj.POST("/content", projectHandler.HandleCreateContent)
	proj.GET("/content/:contentId", projectHandler.HandleGetContent)
	proj.PUT("/content/:contentId", projectHandler.HandleUpdateContent)
	proj.DELETE("/content/:contentId", projectHandler.HandleDeleteContent)
}
