package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// GetAuditLogs godoc
// @Summary List audit logs with filters
// @Tags auditlogs
// @Produce json
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Param action query string false "action filter"
// @Param status query string false "success|failure"
// @Success 200 {object} PaginatedAuditLogs
// @Router /auditlogs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	filter := AuditLogFilter{
		Action: c.Query("action"),
		Status: c.Query("status"),
	}

	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			uid := uint(id)
			filter.UserID = &uid
		}
	}
	if v := c.Query("submission_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			sid := uint(id)
			filter.SubmissionID = &sid
		}
	}
	if v := c.Query("from"); v != "" {
		if ts, err := time.Parse("2006-01-02", v); err == nil {
			filter.FromDate = &ts
		}
	}
	if v := c.Query("to"); v != "" {
		if ts, err := time.Parse("2006-01-02", v); err == nil {
			end := ts.Add(24*time.Hour - time.Second)
			filter.ToDate = &end
		}
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch audit logs"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetAuditLogByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audit log id"})
		return
	}

	log, err := h.service.GetAuditLogByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, log)
}
