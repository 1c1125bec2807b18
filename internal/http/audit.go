package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/catalog/internal/entities"
)

// AuditLog is the slice of the audit service the review endpoint uses.
type AuditLog interface {
	GetEvents(userID uint, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// AuditController serves the audit log review endpoint for librarians.
type AuditController struct {
	events AuditLog
}

func NewAuditController(events AuditLog) *AuditController {
	return &AuditController{events: events}
}

// List handles GET /api/audit: paginated audit events, newest first,
// optionally filtered to one user via ?user_id=. The route requires the
// mark-returned permission.
func (ac *AuditController) List(c *gin.Context) {
	page := parsePageParam(c)

	var userID uint
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid user_id")
			return
		}
		userID = uint(parsed)
	}

	events, total, err := ac.events.GetEvents(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total),
	})
}
