package admin

import (
	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSettingsTabs 设置面板 Tab 列表（包含扩展模块注册的 Tab）
func (h *Handler) GetSettingsTabs(c *gin.Context) {
	tabs, err := h.SettingsPanelService.Tabs(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.settings_fetch_failed", err)
		return
	}
	response.Success(c, tabs)
}

// GetSettingsSchema 设置面板字段定义
func (h *Handler) GetSettingsSchema(c *gin.Context) {
	schema, err := h.SettingsPanelService.Schema(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.settings_fetch_failed", err)
		return
	}
	response.Success(c, schema)
}

// GetVIPSettings 获取 VIP 推广员设置
func (h *Handler) GetVIPSettings(c *gin.Context) {
	setting, err := h.SettingService.GetVIPSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.settings_fetch_failed", err)
		return
	}
	response.Success(c, setting)
}

// UpdateVIPSettings 保存 VIP 推广员设置，兼容 "1"/"on" 等历史取值
func (h *Handler) UpdateVIPSettings(c *gin.Context) {
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if _, err := h.SettingService.Update(constants.SettingKeyVIP, req); err != nil {
		respondError(c, response.CodeInternal, "error.settings_save_failed", err)
		return
	}
	setting, err := h.SettingService.GetVIPSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.settings_fetch_failed", err)
		return
	}
	requestLog(c).Infow("admin_vip_settings_updated",
		"admin_id", c.GetUint("admin_id"),
		"enabled", setting.Enabled,
	)
	response.Success(c, setting)
}

// GetGeneralSettings 获取通用设置
func (h *Handler) GetGeneralSettings(c *gin.Context) {
	setting, err := h.SettingService.GetGeneralSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.settings_fetch_failed", err)
		return
	}
	response.Success(c, setting)
}

// UpdateGeneralSettings 保存通用设置
func (h *Handler) UpdateGeneralSettings(c *gin.Context) {
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if _, err := h.SettingService.Update(constants.SettingKeyGeneral, req); err != nil {
		respondError(c, response.CodeInternal, "error.settings_save_failed", err)
		return
	}
	setting, err := h.SettingService.GetGeneralSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.settings_fetch_failed", err)
		return
	}
	response.Success(c, setting)
}
