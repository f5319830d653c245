package api

import (
	authUsecase "jobmail-backend/internal/auth/usecase"
	eventUsecase "jobmail-backend/internal/event/usecase"
	"jobmail-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase  authUsecase.AuthUsecase
	mailAuth     authUsecase.MailAuthUsecase
	syncUsecase  eventUsecase.SyncUsecase
	eventUsecase eventUsecase.EventUsecase
	config       *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, mailAuth authUsecase.MailAuthUsecase, syncUc eventUsecase.SyncUsecase, eventUc eventUsecase.EventUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:  authUc,
		mailAuth:     mailAuth,
		syncUsecase:  syncUc,
		eventUsecase: eventUc,
		config:       cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.authUsecase, h.mailAuth, h.syncUsecase, h.eventUsecase, h.config)

	return r.Run(addr)
}
