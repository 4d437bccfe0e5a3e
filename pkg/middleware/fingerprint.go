package middleware

import (
	"audslp/pkg/fingerprint"

	"github.com/gin-gonic/gin"
)

// ContextFingerprint is the gin context key holding the caller's fingerprint.
const ContextFingerprint = "fingerprint"

// FingerprintMiddleware resolves the anonymous identity of the caller once per
// request. The value may still be empty-hashed when the client sent nothing.
func FingerprintMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextFingerprint, fingerprint.Resolve(c.Request))
		c.Next()
	}
}
