package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fixlane/fixlane/internal/orgcontext"
	"github.com/gin-gonic/gin"
)

// GetDashboardStats serves the assembled dashboard for the org in
// scope. An optional owner_id query parameter narrows every metric to a
// single technician.
func (s *Server) GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := strings.TrimSpace(c.Query("owner_id")); raw != "" {
		ownerID, err := snowflake.ParseString(raw)
		if err != nil || ownerID == 0 {
			AbortWithError(c, newValidationError("owner_id", "invalid_owner_id", "invalid owner id"))
			return
		}
		ctx = orgcontext.WithOwnerID(ctx, ownerID)
	}

	stats, err := s.dashboardSvc.GetStats(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
