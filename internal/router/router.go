package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/snapdesc/internal/handler"
	"github.com/ashwinyue/snapdesc/internal/middleware"
	"github.com/ashwinyue/snapdesc/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, svc *service.Services) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(cors.Default())
	r.Use(middleware.AuthMiddleware(svc))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 图片静态服务
	r.Static(svc.Config.Storage.URLPrefix, svc.Blobs.BasePath())

	// API v1
	v1 := r.Group("/api/v1")
	{
		// Auth 认证
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/logout", middleware.RequireAuth(svc), h.Auth.Logout)
			authGroup.GET("/me", middleware.RequireAuth(svc), h.Auth.Me)
		}

		// Upload 上传管线
		// 未认证走管线自己的受检响应，不走 401
		v1.POST("/upload", h.Upload.Upload)

		// Uploads 上传记录管理
		uploads := v1.Group("/uploads", middleware.RequireAuth(svc))
		{
			uploads.GET("", h.Upload.List)
			uploads.DELETE("/:id", h.Upload.Delete)
			uploads.PUT("/:id/folder", h.Upload.AddToFolder)
			uploads.DELETE("/:id/folder", h.Upload.RemoveFromFolder)
		}

		// Folder 文件夹
		folders := v1.Group("/folders", middleware.RequireAuth(svc))
		{
			folders.GET("", h.Folder.List)
			folders.POST("", h.Folder.Create)
			folders.PUT("/:id", h.Folder.Rename)
			folders.DELETE("/:id", h.Folder.Delete)
		}
	}

	return r
}
