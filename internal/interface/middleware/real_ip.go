package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP stores the client IP under "real_ip". Proxy headers are read only
// when trustProxy is set.
// Priority: CF-Connecting-IP, left-most X-Forwarded-For, then c.ClientIP().
func RealIP(trustProxy bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if trustProxy {
			if ip := parseIP(c.GetHeader("CF-Connecting-IP")); ip != "" {
				c.Set(CtxRealIP, ip)
				c.Next()
				return
			}
			if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := parseIP(first); ip != "" {
					c.Set(CtxRealIP, ip)
					c.Next()
					return
				}
			}
		}
		c.Set(CtxRealIP, c.ClientIP())
		c.Next()
	}
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
