package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the keep-alive HTTP surface. Hosting platforms that idle
// out free services poll these endpoints; the bot itself never serves real
// traffic over HTTP.
func NewRouter(botRunning func() bool) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	started := time.Now()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Society Payment Tracker Bot",
			"status":  "ok",
			"uptime":  time.Since(started).Round(time.Second).String(),
		})
	})

	r.GET("/health", func(c *gin.Context) {
		bot := "starting"
		if botRunning() {
			bot = "running"
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"bot":    bot,
		})
	})

	return r
}
