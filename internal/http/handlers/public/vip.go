package public

import (
	"github.com/vip-affiliates/internal/hooks"
	"github.com/vip-affiliates/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetMyVIP 当前用户的推广账号 VIP 状态
func (h *Handler) GetMyVIP(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	status, err := h.VIPGateService.CheckAffiliateVIP(c.Request.Context(), hooks.Viewer{UserID: userID})
	if err != nil {
		respondError(c, response.CodeInternal, "error.vip_check_failed", err)
		return
	}
	response.Success(c, status)
}
