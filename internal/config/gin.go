package config

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupGin() *gin.Engine {
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Body size limit (1 MB); this API is JSON-only.
	router.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 1*1024*1024)
		c.Next()
	})

	// Trailing error handler for handlers that use c.Error.
	router.Use(func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err != nil {
			code := http.StatusInternalServerError
			if meta, ok := err.Meta.(int); ok {
				code = meta
			}
			c.JSON(code, gin.H{
				"error":   true,
				"message": err.Error(),
			})
		}
	})

	return router
}
