package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ticketflow-dev/ticketflow/internal/config"
	"github.com/ticketflow-dev/ticketflow/internal/handlers"
	"github.com/ticketflow-dev/ticketflow/internal/middleware"
	"github.com/ticketflow-dev/ticketflow/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/uploads", config.C.UploadDir)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.GET("/:project_id", handlers.GetProject)
			projects.PUT("/:project_id", handlers.UpdateProject)
			projects.DELETE("/:project_id", handlers.DeleteProject)

			projects.POST("/:project_id/members", handlers.AddMember)
			projects.PUT("/:project_id/members/:user_id", handlers.UpdateMemberRole)
			projects.DELETE("/:project_id/members/:user_id", handlers.RemoveMember)
		}

		tickets := api.Group("/tickets", middleware.AuthMiddleware())
		{
			tickets.GET("", handlers.GetTickets)
			tickets.POST("", handlers.CreateTicket)
			tickets.PUT("/:id", handlers.UpdateTicket)
			tickets.DELETE("/:id", handlers.DeleteTicket)
			tickets.POST("/upload", handlers.UploadAttachment)
			tickets.POST("/:id/comments", handlers.AddComment)
			tickets.GET("/:id/comments", handlers.GetComments)
		}
	}

	return r
}
