package service

import (
	"context"

	"github.com/vip-affiliates/internal/constants"
	"github.com/vip-affiliates/internal/hooks"
)

// SettingsPanelService 设置面板结构，由各模块通过过滤器扩展
type SettingsPanelService struct {
	dispatcher *hooks.Dispatcher
}

// NewSettingsPanelService 创建设置面板服务
func NewSettingsPanelService(dispatcher *hooks.Dispatcher) *SettingsPanelService {
	if dispatcher == nil {
		dispatcher = hooks.NewDispatcher()
	}
	return &SettingsPanelService{dispatcher: dispatcher}
}

// Tabs 返回全部设置 Tab（经过 affwp_settings_tabs 过滤器）
func (s *SettingsPanelService) Tabs(ctx context.Context) ([]hooks.SettingsTab, error) {
	base := []hooks.SettingsTab{
		{Key: constants.SettingsTabGeneral, Label: constants.SettingsTabGeneralLabel},
	}
	return s.dispatcher.SettingsTabs.Apply(ctx, base)
}

// Schema 返回全部设置项（经过 affwp_settings 过滤器）
func (s *SettingsPanelService) Schema(ctx context.Context) (hooks.SettingsSchema, error) {
	base := hooks.SettingsSchema{
		constants.SettingsTabGeneral: {
			{
				ID:          constants.SettingFieldDebugMode,
				Name:        "Debug Mode",
				Type:        constants.SettingFieldTypeCheckbox,
				Description: "Log VIP gate decisions.",
				Default:     false,
			},
		},
	}
	return s.dispatcher.Settings.Apply(ctx, base)
}
