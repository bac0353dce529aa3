package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Middleware verifies the Authorization bearer header and aborts with a
// uniform "not authorized" response on any failure kind. The verified
// identity is attached to the request context on success.
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
			return
		}

		identity, err := v.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// MustIdentity returns the identity attached by Middleware. It panics if the
// route was not registered behind the middleware, which is a wiring bug.
func MustIdentity(c *gin.Context) Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		panic("auth: identity missing from context; route not behind auth middleware")
	}
	return v.(Identity)
}
