package handlers

import (
	"net/http"

	"herelaw-backend/auth"

	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted by the API
type Handlers struct {
	Auth         *AuthHandler
	Complaint    *ComplaintHandler
	Session      *SessionHandler
	Feedback     *FeedbackHandler
	Consultation *ConsultationHandler
	File         *FileHandler
	Admin        *AdminHandler
}

// RegisterRoutes mounts the API on r
func RegisterRoutes(r *gin.Engine, h Handlers, jwt *auth.JWTManager) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)

	protected := api.Group("")
	protected.Use(auth.JWTRequired(jwt))
	{
		protected.GET("/me", h.Auth.Me)
		protected.PUT("/me/password", h.Auth.ChangePassword)

		protected.POST("/complaints", h.Complaint.Generate)
		protected.PUT("/complaints/:id", h.Complaint.Update)
		protected.POST("/complaints/:id/export", h.Complaint.Export)

		protected.GET("/sessions", h.Session.List)
		protected.GET("/sessions/:id", h.Session.Get)

		protected.POST("/rating", h.Feedback.Rate)
		protected.GET("/feedback-statistics", h.Feedback.Statistics)

		protected.POST("/consultations/audio", h.Consultation.UploadAudio)
		protected.GET("/files/:id", h.File.GetFile)
	}

	admin := protected.Group("/admin")
	admin.Use(auth.AdminRequired())
	{
		admin.GET("/best-practices", h.Feedback.BestPractices)

		admin.GET("/users", h.Admin.ListUsers)
		admin.PUT("/users/:id", h.Admin.UpdateUser)
		admin.POST("/users/:id/reset-password", h.Admin.ResetPassword)
		admin.GET("/users/:id/stats", h.Admin.Stats)
		admin.GET("/users/:id/logs", h.Admin.Logs)
	}
}
