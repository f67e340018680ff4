package admin

import (
	"strings"
	"time"

	handlershared "github.com/vip-affiliates/internal/http/handlers/shared"
	"github.com/vip-affiliates/internal/http/response"
	"github.com/vip-affiliates/internal/service"

	"github.com/gin-gonic/gin"
)

// ListVIPAuditLogs VIP 标记变更审计日志
func (h *Handler) ListVIPAuditLogs(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	createdFrom, ok := parseTimeQuery(c, "created_from", false)
	if !ok {
		return
	}
	createdTo, ok := parseTimeQuery(c, "created_to", true)
	if !ok {
		return
	}

	logs, total, err := h.VIPAuditService.ListForAdmin(service.VIPAuditListInput{
		Page:            page,
		PageSize:        pageSize,
		AffiliateID:     handlershared.QueryUint(c, "affiliate_id"),
		OperatorAdminID: handlershared.QueryUint(c, "operator_admin_id"),
		Action:          c.Query("action"),
		CreatedFrom:     createdFrom,
		CreatedTo:       createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.audit_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, logs, response.BuildPagination(page, pageSize, total))
}

// parseTimeQuery 支持 RFC3339 与日期格式；仅日期且 endOfDay 时取当天结束时刻
func parseTimeQuery(c *gin.Context, name string, endOfDay bool) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, true
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return nil, false
	}
	if endOfDay {
		parsed = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return &parsed, true
}
