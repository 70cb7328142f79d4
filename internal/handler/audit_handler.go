package handler

import (
	"net/http"
	"strconv"

	"gestaomv/internal/middleware"
	"gestaomv/internal/model"
	"gestaomv/internal/repository"
	"gestaomv/internal/service"
	"gestaomv/pkg/pagination"
	"gestaomv/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/audit-logs", middleware.RequireAnyRole(model.RoleAdmin), h.ListAuditLogs)
}

// ListAuditLogs returns the audit trail, optionally filtered by action and user
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	filter := repository.AuditFilter{
		Action: c.Query("action"),
		Page:   params.Page,
		Limit:  params.Limit,
	}
	if v, err := strconv.ParseUint(c.Query("user_id"), 10, 64); err == nil {
		filter.UserID = uint(v)
	}

	logs, total, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, logs, total, params.Page, params.Limit))
}
