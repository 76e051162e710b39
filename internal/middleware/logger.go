package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

var skipPaths = map[string]bool{
	"/health": true,
}

// Logger logs one colored line per request with method, path, status,
// latency and the acting user when authenticated.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		if skipPaths[path] {
			c.Next()
			return
		}

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		userID := c.GetString("userID")

		line := ""
		if userID != "" {
			line = " user=" + userID
		}

		log.Printf("%s%s%s %s%s%s %s%d%s %v%s",
			methodColor(c.Request.Method), c.Request.Method, colorReset,
			colorBlue, path, colorReset,
			statusColor(status), status, colorReset,
			latency, line)
	}
}

func methodColor(method string) string {
	switch method {
	case "GET":
		return colorGreen
	case "POST":
		return colorBlue
	case "PUT":
		return colorYellow
	case "DELETE":
		return colorRed
	default:
		return colorWhite
	}
}

func statusColor(status int) string {
	switch {
	case status >= 200 && status < 300:
		return colorGreen
	case status >= 400 && status < 500:
		return colorYellow
	case status >= 500:
		return colorRed
	default:
		return colorCyan
	}
}
