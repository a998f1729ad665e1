package main

import (
	"waste-platform/internal/httpapi"
	"waste-platform/internal/metrics"
	"waste-platform/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Route middleware only gates coarse
// role access; ownership checks run inside the workflow engine.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)

	// protected
	api := r.Group("/api")
	api.Use(authMW)
	{
		complaints := api.Group("/complaints")
		{
			complaints.POST("", rbac.RequireAnyRole(rbac.RoleCitizen), h.SubmitComplaint)
			complaints.GET("", h.ListComplaints)
			complaints.GET("/:id", h.GetComplaint)
			complaints.GET("/:id/logs", h.GetActivityLog)

			complaints.PUT("/:id/assign", rbac.RequireAnyRole(rbac.RoleAgent), h.AssignWorker)
			complaints.PUT("/:id/start", rbac.RequireAnyRole(rbac.RoleWorker), h.StartWork)
			complaints.PUT("/:id/complete", rbac.RequireAnyRole(rbac.RoleWorker), h.CompleteWork)
			complaints.PUT("/:id/verify", rbac.RequireAnyRole(rbac.RoleAgent), h.VerifyCompletion)
			complaints.PUT("/:id/feedback", rbac.RequireAnyRole(rbac.RoleCitizen), h.SubmitFeedback)
		}

		api.GET("/users/workers", rbac.RequireAnyRole(rbac.RoleAgent), h.ListWorkers)
		api.GET("/dashboard/stats", h.DashboardStats)
	}
}
