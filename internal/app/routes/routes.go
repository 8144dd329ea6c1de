package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/academia/internal/app/controllers"
	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/app/models/dto"
	"github.com/yigit/academia/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	sessionController *controllers.SessionController,
	analyticsController *controllers.AnalyticsController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})

	// Every session route needs an authenticated actor.
	sessions := v1.Group("/sessions")
	sessions.Use(authMiddleware.JWTAuth())
	{
		// Reads are open to any authenticated role
		sessions.GET("/analytics", analyticsController.Aggregate)
		sessions.GET("/:deptId", sessionController.ListSessions)
		sessions.GET("/:deptId/overdue", sessionController.ListOverdue)
		sessions.GET("/:deptId/:id", sessionController.GetSession)

		// Only the principal approves intakes
		principal := sessions.Group("")
		principal.Use(authMiddleware.RoleRequired(models.RolePrincipal))
		{
			principal.POST("/:deptId", sessionController.CreateSession)
		}

		administrators := sessions.Group("")
		administrators.Use(authMiddleware.RoleRequired(models.RolePrincipal, models.RoleHOD))
		{
			administrators.PUT("/:deptId/:id", sessionController.AdjustCapacity)
			administrators.PATCH("/:deptId/:id/activate", sessionController.Activate)
			administrators.PATCH("/:deptId/:id/lock", sessionController.Lock)
			administrators.PATCH("/:deptId/:id/unlock", sessionController.Unlock)
			administrators.PATCH("/:deptId/:id/close-enrollment", sessionController.CloseEnrollment)
			administrators.PATCH("/:deptId/:id/enrollment", sessionController.RecordEnrollment)
			administrators.PATCH("/:deptId/:id/promote", sessionController.PromoteSemester)
		}
	}
}
