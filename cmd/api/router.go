package api

import (
	"net/http"

	"jobmail-backend/internal/auth/delivery"
	authUsecase "jobmail-backend/internal/auth/usecase"
	eventDelivery "jobmail-backend/internal/event/delivery"
	eventUsecase "jobmail-backend/internal/event/usecase"
	"jobmail-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, mailAuth authUsecase.MailAuthUsecase, syncUc eventUsecase.SyncUsecase, eventUc eventUsecase.EventUsecase, cfg *config.Config) {
	authHandler := delivery.NewAuthHandler(authUc, mailAuth, cfg)
	eventHandler := eventDelivery.NewEventHandler(syncUc, eventUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
			auth.POST("/logout", authHandler.Logout)
		}

		// Mail provider connection routes
		gmail := api.Group("/gmail")
		{
			gmail.GET("", delivery.AuthMiddleware(authUc), eventHandler.PreviewMail)
			gmail.GET("/authorize", delivery.AuthMiddleware(authUc), authHandler.GmailAuthorize)
			// Google redirects here; the browser carries no bearer token,
			// identity rides in the signed state parameter.
			gmail.GET("/callback", authHandler.GmailCallback)
		}
		api.POST("/imap/connect", delivery.AuthMiddleware(authUc), authHandler.ConnectIMAP)

		// Event routes (protected)
		events := api.Group("/events")
		events.Use(delivery.AuthMiddleware(authUc))
		{
			events.POST("/sync", eventHandler.Sync)
			events.GET("", eventHandler.GetEvents)
			events.GET("/:id", eventHandler.GetEventByID)
			events.PATCH("/:id", eventHandler.UpdateEvent)
			events.DELETE("/:id", eventHandler.DeleteEvent)
			events.POST("/extract-company", eventHandler.ExtractCompany)
		}
	}
}
