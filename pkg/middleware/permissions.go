package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/commerce-platform/inventory-service/pkg/errors"
)

// Permission keys recognized by this service
const (
	PermInventoryRead   = "INVENTORY:READ"
	PermInventoryCreate = "INVENTORY:CREATE"
	PermInventoryUpdate = "INVENTORY:UPDATE"
	PermInventoryWrite  = "INVENTORY:WRITE"
)

// HeaderPermissions carries the gateway-resolved permission keys,
// comma separated. Authentication itself happens upstream.
const HeaderPermissions = "X-Permissions"

const contextKeyPermissions = "permissions"

// Permissions parses the permission header into the request context
func Permissions() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderPermissions)

		perms := make(map[string]bool)
		for _, p := range strings.Split(raw, ",") {
			p = strings.ToUpper(strings.TrimSpace(p))
			if p != "" {
				perms[p] = true
			}
		}

		c.Set(contextKeyPermissions, perms)
		c.Next()
	}
}

// RequirePermission aborts with 403 unless the request carries the given key
func RequirePermission(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasPermission(c, key) {
			AbortWithAppError(c, errors.ErrForbidden("missing permission "+key))
			return
		}
		c.Next()
	}
}

// HasPermission reports whether the request carries the given permission key
func HasPermission(c *gin.Context, key string) bool {
	val, exists := c.Get(contextKeyPermissions)
	if !exists {
		return false
	}
	perms, ok := val.(map[string]bool)
	if !ok {
		return false
	}
	return perms[key]
}
