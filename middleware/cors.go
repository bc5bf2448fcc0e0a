package middleware

import (
	"github.com/gin-gonic/gin"
)

// AllowedHeaders covers content negotiation, auth and the client-identification
// headers sent by the site's SDK.
const AllowedHeaders = "authorization, x-client-info, apikey, content-type, x-forwarded-for, x-real-ip, " +
	"x-supabase-client-platform, x-supabase-client-platform-version, " +
	"x-supabase-client-runtime, x-supabase-client-runtime-version"

// CORS sets the cross-origin headers on every response. An empty origin means "*".
func CORS(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Headers", AllowedHeaders)
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		if origin != "*" {
			h.Add("Vary", "Origin")
		}
		c.Next()
	}
}
