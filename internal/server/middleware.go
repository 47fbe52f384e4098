package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fixlane/fixlane/internal/orgcontext"
	"github.com/gin-gonic/gin"
)

const HeaderOrg = "X-Org-ID"

// OrgContext resolves the organization scope from the request header
// and injects it into the request context. Requests without a valid org
// never reach a handler.
func OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderOrg))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		orgID, err := snowflake.ParseString(raw)
		if err != nil || orgID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), orgID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
