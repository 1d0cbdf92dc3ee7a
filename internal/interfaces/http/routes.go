package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api/v1")
	{
		api.GET("/quote", handler.GetQuote)
		api.GET("/symbols", handler.SuggestSymbols)

		api.GET("/news", handler.GetNews)
		api.POST("/news/summary", handler.SummarizeNews)
		api.POST("/ask", handler.Ask)
		api.POST("/factcheck", handler.FactCheck)

		api.GET("/lookups", handler.ListLookups)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RequestTimeout bounds the context every downstream call runs under.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
